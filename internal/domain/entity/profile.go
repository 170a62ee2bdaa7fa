package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is the role-specific extension of a User. Each role kind has
// exactly one concrete type, stored in its own table.
type Profile interface {
	OwnerID() uuid.UUID
	Kind() RoleKind
	TableName() string
}

// Horaires holds opening hours exactly as submitted.
type Horaires struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProfileBase carries the immutable owner key shared by every profile table.
type ProfileBase struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p ProfileBase) OwnerID() uuid.UUID {
	return p.UserID
}

// PatientProfile holds medical data collected at registration.
type PatientProfile struct {
	ProfileBase
	Age             *int                        `json:"age"`
	Gender          *string                     `gorm:"type:varchar(20)" json:"gender"`
	BloodType       *string                     `gorm:"type:varchar(5)" json:"blood_type"`
	Allergies       datatypes.JSONSlice[string] `json:"allergies"`
	ChronicDiseases datatypes.JSONSlice[string] `json:"chronic_diseases"`
	MissedRdv       int                         `gorm:"not null" json:"missed_rdv"`
}

func (PatientProfile) TableName() string { return "patient_profiles" }
func (PatientProfile) Kind() RoleKind    { return RolePatient }

// Practitioner is the shape shared by individual practitioners. Specialty is
// stored flattened as a comma separated string.
type Practitioner struct {
	ProfileBase
	Specialty        *string                      `gorm:"type:text" json:"specialty"`
	ExperienceYears  *int                         `json:"experience_years"`
	Horaires         datatypes.JSONType[Horaires] `json:"horaires"`
	Diplomas         datatypes.JSONSlice[string]  `json:"diplomas"`
	Adresse          *string                      `gorm:"type:varchar(255)" json:"adresse"`
	Disponible       bool                         `gorm:"not null" json:"disponible"`
	AbsenceStartDate *time.Time                   `json:"absence_start_date"`
	AbsenceEndDate   *time.Time                   `json:"absence_end_date"`
}

func (p *Practitioner) PractitionerData() *Practitioner { return p }

type MedecinProfile struct{ Practitioner }

func (MedecinProfile) TableName() string { return "medecin_profiles" }
func (MedecinProfile) Kind() RoleKind    { return RoleMedecin }

type KineProfile struct{ Practitioner }

func (KineProfile) TableName() string { return "kine_profiles" }
func (KineProfile) Kind() RoleKind    { return RoleKine }

type OrthophonisteProfile struct{ Practitioner }

func (OrthophonisteProfile) TableName() string { return "orthophoniste_profiles" }
func (OrthophonisteProfile) Kind() RoleKind    { return RoleOrthophoniste }

type PsychologueProfile struct{ Practitioner }

func (PsychologueProfile) TableName() string { return "psychologue_profiles" }
func (PsychologueProfile) Kind() RoleKind    { return RolePsychologue }

// Facility is the shape shared by establishments. Services keep their list
// form.
type Facility struct {
	ProfileBase
	Adresse    *string                      `gorm:"type:varchar(255)" json:"adresse"`
	Horaires   datatypes.JSONType[Horaires] `json:"horaires"`
	GerantName *string                      `gorm:"type:varchar(255)" json:"gerant_name"`
	Services   datatypes.JSONSlice[string]  `json:"services"`
	Disponible bool                         `gorm:"not null" json:"disponible"`
}

func (f *Facility) FacilityData() *Facility { return f }

type CliniqueProfile struct {
	Facility
	NomClinique  string  `gorm:"type:varchar(255)" json:"nom_clinique"`
	Localisation *string `gorm:"type:varchar(255)" json:"localisation"`
	NbrPersonnel *int    `json:"nbr_personnel"`
}

func (CliniqueProfile) TableName() string            { return "clinique_profiles" }
func (CliniqueProfile) Kind() RoleKind               { return RoleClinique }
func (p *CliniqueProfile) EstablishmentName() string { return p.NomClinique }

type PharmacieProfile struct {
	Facility
	NomPharmacie string `gorm:"type:varchar(255)" json:"nom_pharmacie"`
}

func (PharmacieProfile) TableName() string            { return "pharmacie_profiles" }
func (PharmacieProfile) Kind() RoleKind               { return RolePharmacie }
func (p *PharmacieProfile) EstablishmentName() string { return p.NomPharmacie }

type ParapharmacieProfile struct {
	Facility
	NomParapharmacie string `gorm:"type:varchar(255)" json:"nom_parapharmacie"`
}

func (ParapharmacieProfile) TableName() string            { return "parapharmacie_profiles" }
func (ParapharmacieProfile) Kind() RoleKind               { return RoleParapharmacie }
func (p *ParapharmacieProfile) EstablishmentName() string { return p.NomParapharmacie }

type LaboAnalyseProfile struct {
	Facility
	NomLabo string `gorm:"type:varchar(255)" json:"nom_labo"`
}

func (LaboAnalyseProfile) TableName() string            { return "labo_analyse_profiles" }
func (LaboAnalyseProfile) Kind() RoleKind               { return RoleLaboAnalyse }
func (p *LaboAnalyseProfile) EstablishmentName() string { return p.NomLabo }

type CentreRadiologieProfile struct {
	Facility
	NomCentre string `gorm:"type:varchar(255)" json:"nom_centre"`
}

func (CentreRadiologieProfile) TableName() string            { return "centre_radiologie_profiles" }
func (CentreRadiologieProfile) Kind() RoleKind               { return RoleCentreRadiologie }
func (p *CentreRadiologieProfile) EstablishmentName() string { return p.NomCentre }

// PractitionerProfile is implemented by every practitioner variant.
type PractitionerProfile interface {
	Profile
	PractitionerData() *Practitioner
}

// FacilityProfile is implemented by every facility variant.
type FacilityProfile interface {
	Profile
	FacilityData() *Facility
	EstablishmentName() string
}

// ProfileModels lists one zero value per profile table, for migrations.
func ProfileModels() []interface{} {
	return []interface{}{
		&PatientProfile{},
		&MedecinProfile{},
		&KineProfile{},
		&OrthophonisteProfile{},
		&PsychologueProfile{},
		&CliniqueProfile{},
		&PharmacieProfile{},
		&ParapharmacieProfile{},
		&LaboAnalyseProfile{},
		&CentreRadiologieProfile{},
	}
}
