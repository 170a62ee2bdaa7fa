package usecase

import (
	"context"
	"fmt"
	"strings"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"
	"medilink-api/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	otherOption  = "Autres"
	diplomaDir   = "diplomas"
	specialtySep = ", "
)

// ProfileProvisioner creates the profile row matching a user's role.
type ProfileProvisioner interface {
	// Provision returns the references of every file it wrote, also on
	// failure, so the caller can remove them.
	Provision(ctx context.Context, tx *gorm.DB, user *entity.User, kind entity.RoleKind, fields *dto.ProfileFields) (entity.Profile, []string, error)
}

type profileProvisioner struct {
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	files       storage.FileStore
}

func NewProfileProvisioner(log *logrus.Logger, profileRepo repository.ProfileRepository, files storage.FileStore) ProfileProvisioner {
	return &profileProvisioner{
		log:         log,
		profileRepo: profileRepo,
		files:       files,
	}
}

func (p *profileProvisioner) Provision(ctx context.Context, tx *gorm.DB, user *entity.User, kind entity.RoleKind, fields *dto.ProfileFields) (entity.Profile, []string, error) {
	if fields == nil {
		fields = &dto.ProfileFields{}
	}

	var written []string
	var practitioner entity.Practitioner
	if kind.Family() == entity.FamilyPractitioner {
		refs, err := p.storeDiplomas(fields.Diplomas)
		written = refs
		if err != nil {
			return nil, written, err
		}
		practitioner = newPractitioner(user.ID, fields, refs)
	}
	facility := newFacility(user.ID, fields)

	var profile entity.Profile
	switch kind {
	case entity.RolePatient:
		profile = newPatient(user.ID, fields)
	case entity.RoleMedecin:
		profile = &entity.MedecinProfile{Practitioner: practitioner}
	case entity.RoleKine:
		profile = &entity.KineProfile{Practitioner: practitioner}
	case entity.RoleOrthophoniste:
		profile = &entity.OrthophonisteProfile{Practitioner: practitioner}
	case entity.RolePsychologue:
		profile = &entity.PsychologueProfile{Practitioner: practitioner}
	case entity.RoleClinique:
		profile = &entity.CliniqueProfile{
			Facility:     facility,
			NomClinique:  fields.NomEtablissement,
			Localisation: fields.Localisation,
			NbrPersonnel: fields.NbrPersonnel,
		}
	case entity.RolePharmacie:
		profile = &entity.PharmacieProfile{Facility: facility, NomPharmacie: fields.NomEtablissement}
	case entity.RoleParapharmacie:
		profile = &entity.ParapharmacieProfile{Facility: facility, NomParapharmacie: fields.NomEtablissement}
	case entity.RoleLaboAnalyse:
		profile = &entity.LaboAnalyseProfile{Facility: facility, NomLabo: fields.NomEtablissement}
	case entity.RoleCentreRadiologie:
		profile = &entity.CentreRadiologieProfile{Facility: facility, NomCentre: fields.NomEtablissement}
	default:
		return nil, written, fmt.Errorf("no profile variant for role %q", kind)
	}

	if err := p.profileRepo.Create(ctx, tx, profile); err != nil {
		p.log.Warnf("Failed to create %s profile: %+v", kind, err)
		return nil, written, err
	}

	return profile, written, nil
}

func (p *profileProvisioner) storeDiplomas(files []storage.File) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := p.files.Save(diplomaDir, file)
		if err != nil {
			p.log.Warnf("Failed to store diploma %s: %+v", file.Name, err)
			return refs, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func newPatient(userID uuid.UUID, fields *dto.ProfileFields) *entity.PatientProfile {
	return &entity.PatientProfile{
		ProfileBase:     entity.ProfileBase{UserID: userID},
		Age:             fields.Age,
		Gender:          fields.Gender,
		BloodType:       fields.BloodType,
		Allergies:       optionalList(fields.Allergies),
		ChronicDiseases: optionalList(fields.ChronicDiseases),
		MissedRdv:       0,
	}
}

func newPractitioner(userID uuid.UUID, fields *dto.ProfileFields, diplomas []string) entity.Practitioner {
	specialty := substituteOther(fields.Specialty, fields.OtherSpecialty)

	return entity.Practitioner{
		ProfileBase:     entity.ProfileBase{UserID: userID},
		Specialty:       joinSpecialty(specialty),
		ExperienceYears: fields.ExperienceYears,
		Horaires:        horaires(fields),
		Diplomas:        datatypes.JSONSlice[string](diplomas),
		Adresse:         fields.Adresse,
		Disponible:      true,
	}
}

func newFacility(userID uuid.UUID, fields *dto.ProfileFields) entity.Facility {
	services := substituteOther(fields.Services, fields.OtherService)

	return entity.Facility{
		ProfileBase: entity.ProfileBase{UserID: userID},
		Adresse:     fields.Adresse,
		Horaires:    horaires(fields),
		GerantName:  fields.GerantName,
		Services:    datatypes.JSONSlice[string](services),
		Disponible:  true,
	}
}

func horaires(fields *dto.ProfileFields) datatypes.JSONType[entity.Horaires] {
	return datatypes.NewJSONType(entity.Horaires{
		Start: fields.HoraireStart,
		End:   fields.HoraireEnd,
	})
}

// substituteOther replaces every "Autres" entry with the custom value, once,
// when a custom value was given. The result is never nil.
func substituteOther(list []string, other *string) []string {
	result := make([]string, 0, len(list)+1)
	hasOther := false
	for _, item := range list {
		if item == otherOption {
			hasOther = true
			continue
		}
		result = append(result, item)
	}

	if !hasOther || other == nil || strings.TrimSpace(*other) == "" {
		return append([]string{}, list...)
	}

	custom := strings.TrimSpace(*other)
	for _, item := range result {
		if strings.TrimSpace(item) == custom {
			return result
		}
	}
	return append(result, custom)
}

// joinSpecialty flattens a specialty list; an empty list is stored as NULL.
func joinSpecialty(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	joined := strings.Join(list, specialtySep)
	return &joined
}

func optionalList(list []string) datatypes.JSONSlice[string] {
	if len(list) == 0 {
		return nil
	}
	return datatypes.JSONSlice[string](list)
}
