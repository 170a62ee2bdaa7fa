package converter

import (
	"fmt"
	"regexp"
	"strings"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

var specialtySeparators = regexp.MustCompile(`[,;|]`)

// SplitSpecialties turns a stored specialty string into trimmed, non-empty tags.
func SplitSpecialties(specialty string) []string {
	tags := []string{}
	for _, tag := range specialtySeparators.Split(specialty, -1) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MedecinToResponse builds a directory entry. profile may be nil for a
// medecin whose profile row is missing.
func MedecinToResponse(user *entity.User, profile *entity.MedecinProfile, withDetails bool) *dto.MedecinResponse {
	response := &dto.MedecinResponse{
		ID:          user.ID,
		Name:        user.Name,
		Specialties: []string{},
	}
	if profile == nil {
		return response
	}

	if profile.Specialty != nil {
		response.Specialty = *profile.Specialty
		response.Specialties = SplitSpecialties(*profile.Specialty)
	}
	response.Location = profile.Adresse
	response.Available = profile.Disponible

	if withDetails {
		if profile.ExperienceYears != nil {
			experience := fmt.Sprintf("%d ans d'expérience", *profile.ExperienceYears)
			response.Experience = &experience
		}
		response.Schedule = []entity.Horaires{profile.Horaires.Data()}
	}

	return response
}

// OrganisationToResponse builds a facility directory entry.
func OrganisationToResponse(user *entity.User, profile entity.FacilityProfile) dto.OrganisationResponse {
	facility := profile.FacilityData()

	name := profile.EstablishmentName()
	if name == "" {
		name = user.Name
	}

	location := facility.Adresse
	if clinique, ok := profile.(*entity.CliniqueProfile); ok && clinique.Localisation != nil {
		location = clinique.Localisation
	}

	services := []string(facility.Services)
	if services == nil {
		services = []string{}
	}

	return dto.OrganisationResponse{
		ID:         user.ID,
		Name:       name,
		Type:       string(profile.Kind()),
		Location:   location,
		GerantName: facility.GerantName,
		Available:  facility.Disponible,
		Services:   services,
	}
}
