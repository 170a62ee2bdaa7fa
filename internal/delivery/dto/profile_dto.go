package dto

import (
	"encoding/json"
	"strings"

	"medilink-api/pkg/storage"
)

// StringList accepts a JSON array or a string holding a JSON-encoded array.
// Anything undecodable becomes an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		*l = ParseStringList(encoded)
		return nil
	}

	*l = StringList{}
	return nil
}

// ParseStringList decodes form values: a single value must be a JSON array,
// repeated values are taken as the list itself.
func ParseStringList(values ...string) StringList {
	if len(values) != 1 {
		return StringList(values)
	}

	var list []string
	if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
		return StringList{}
	}
	return list
}

// CommaList accepts a JSON array or a comma separated string.
type CommaList []string

func (l *CommaList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = CommaList{}
		return nil
	}
	*l = SplitCommaList(raw)
	return nil
}

func SplitCommaList(raw string) CommaList {
	list := CommaList{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// ProfileFields are the role specific registration fields.
type ProfileFields struct {
	// patient
	Age             *int       `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender          *string    `json:"gender" validate:"omitempty,max=20"`
	BloodType       *string    `json:"blood_type" validate:"omitempty,max=5"`
	Allergies       StringList `json:"allergies"`
	ChronicDiseases StringList `json:"chronic_diseases"`

	// practitioners
	Specialty       StringList `json:"specialty"`
	OtherSpecialty  *string    `json:"other_specialty"`
	ExperienceYears *int       `json:"experience_years" validate:"omitempty,gte=0"`

	// facilities
	NomEtablissement string     `json:"nom_etablissement" validate:"max=255"`
	Localisation     *string    `json:"localisation" validate:"omitempty,max=255"`
	NbrPersonnel     *int       `json:"nbr_personnel" validate:"omitempty,gte=0"`
	GerantName       *string    `json:"gerant_name" validate:"omitempty,max=255"`
	Services         StringList `json:"services"`
	OtherService     *string    `json:"other_service"`

	// shared
	Adresse      *string `json:"adresse" validate:"omitempty,max=255"`
	HoraireStart string  `json:"horaire_start"`
	HoraireEnd   string  `json:"horaire_end"`

	Diplomas []storage.File `json:"-"`
}
