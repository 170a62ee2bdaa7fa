package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleKind is the closed set of roles an identity can hold.
type RoleKind string

const (
	RoleAdmin            RoleKind = "admin"
	RolePatient          RoleKind = "patient"
	RoleMedecin          RoleKind = "medecin"
	RoleKine             RoleKind = "kine"
	RoleOrthophoniste    RoleKind = "orthophoniste"
	RolePsychologue      RoleKind = "psychologue"
	RoleClinique         RoleKind = "clinique"
	RolePharmacie        RoleKind = "pharmacie"
	RoleParapharmacie    RoleKind = "parapharmacie"
	RoleLaboAnalyse      RoleKind = "labo_analyse"
	RoleCentreRadiologie RoleKind = "centre_radiologie"
)

// Role ID constants
const (
	RoleIDAdmin = iota + 1
	RoleIDPatient
	RoleIDMedecin
	RoleIDKine
	RoleIDOrthophoniste
	RoleIDPsychologue
	RoleIDClinique
	RoleIDPharmacie
	RoleIDParapharmacie
	RoleIDLaboAnalyse
	RoleIDCentreRadiologie
)

// RoleFamily groups role kinds sharing a profile shape.
type RoleFamily int

const (
	FamilyAdmin RoleFamily = iota
	FamilyPatient
	FamilyPractitioner
	FamilyFacility
)

type roleInfo struct {
	id          int
	kind        RoleKind
	family      RoleFamily
	table       string
	description string
}

var roleTable = []roleInfo{
	{RoleIDAdmin, RoleAdmin, FamilyAdmin, "", "Platform administrator"},
	{RoleIDPatient, RolePatient, FamilyPatient, "patient_profiles", "Patient"},
	{RoleIDMedecin, RoleMedecin, FamilyPractitioner, "medecin_profiles", "Médecin"},
	{RoleIDKine, RoleKine, FamilyPractitioner, "kine_profiles", "Kinésithérapeute"},
	{RoleIDOrthophoniste, RoleOrthophoniste, FamilyPractitioner, "orthophoniste_profiles", "Orthophoniste"},
	{RoleIDPsychologue, RolePsychologue, FamilyPractitioner, "psychologue_profiles", "Psychologue"},
	{RoleIDClinique, RoleClinique, FamilyFacility, "clinique_profiles", "Clinique"},
	{RoleIDPharmacie, RolePharmacie, FamilyFacility, "pharmacie_profiles", "Pharmacie"},
	{RoleIDParapharmacie, RoleParapharmacie, FamilyFacility, "parapharmacie_profiles", "Parapharmacie"},
	{RoleIDLaboAnalyse, RoleLaboAnalyse, FamilyFacility, "labo_analyse_profiles", "Laboratoire d'analyses"},
	{RoleIDCentreRadiologie, RoleCentreRadiologie, FamilyFacility, "centre_radiologie_profiles", "Centre de radiologie"},
}

// ResolveRole maps a role identifier to its kind.
func ResolveRole(id int) (RoleKind, bool) {
	for _, r := range roleTable {
		if r.id == id {
			return r.kind, true
		}
	}
	return "", false
}

func (k RoleKind) info() (roleInfo, bool) {
	for _, r := range roleTable {
		if r.kind == k {
			return r, true
		}
	}
	return roleInfo{}, false
}

// ID returns the fixed identifier of k, 0 if k is not a known kind.
func (k RoleKind) ID() int {
	r, _ := k.info()
	return r.id
}

func (k RoleKind) Family() RoleFamily {
	r, _ := k.info()
	return r.family
}

// ProfileTable names the table holding profiles of kind k.
func (k RoleKind) ProfileTable() string {
	r, _ := k.info()
	return r.table
}

// IsProfessional reports whether k can receive appointments and own listings.
func (k RoleKind) IsProfessional() bool {
	f := k.Family()
	return f == FamilyPractitioner || f == FamilyFacility
}

// Registrable reports whether k may be chosen at self-registration.
func (k RoleKind) Registrable() bool {
	_, ok := k.info()
	return ok && k != RoleAdmin
}

// SeedRoles returns the rows the roles table must hold.
func SeedRoles() []Role {
	roles := make([]Role, 0, len(roleTable))
	for _, r := range roleTable {
		roles = append(roles, Role{ID: r.id, Name: string(r.kind), Description: r.description})
	}
	return roles
}

// ProfessionalRoleIDs lists role ids of every practitioner and facility kind.
func ProfessionalRoleIDs() []int {
	var ids []int
	for _, r := range roleTable {
		if r.kind.IsProfessional() {
			ids = append(ids, r.id)
		}
	}
	return ids
}

// RoleKindsOf returns the kinds belonging to family f, in identifier order.
func RoleKindsOf(f RoleFamily) []RoleKind {
	var kinds []RoleKind
	for _, r := range roleTable {
		if r.family == f {
			kinds = append(kinds, r.kind)
		}
	}
	return kinds
}
