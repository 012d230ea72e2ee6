package models

import (
	"encoding/json"
	"fmt"
)

// VaccineType is the brand of an administered vaccine.
type VaccineType string

const (
	VaccineSputnik           VaccineType = "SPUTNIK"
	VaccineAztrazeneca       VaccineType = "AZTRAZENECA"
	VaccinePfizer            VaccineType = "PFIZER"
	VaccineJhonsonAndJhonson VaccineType = "JHONSON_AND_JHONSON"
)

// VaccineTypes lists the known brands in display order.
var VaccineTypes = []VaccineType{
	VaccineSputnik,
	VaccineAztrazeneca,
	VaccinePfizer,
	VaccineJhonsonAndJhonson,
}

// ParseVaccineType rejects values outside VaccineTypes.
func ParseVaccineType(s string) (VaccineType, error) {
	for _, t := range VaccineTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown vaccine type %q", s)
}

func (t *VaccineType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := ParseVaccineType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Vaccine is one vaccination record owned by an ApplicationUser.
type Vaccine struct {
	ID              *int64           `json:"id,omitempty"`
	VaccineType     VaccineType      `json:"vaccineType,omitempty" validate:"required,oneof=SPUTNIK AZTRAZENECA PFIZER JHONSON_AND_JHONSON"`
	VaccinationDate *LocalDate       `json:"vaccinationDate,omitempty" validate:"required"`
	Doses           *int             `json:"doses,omitempty" validate:"required,min=1"`
	ApplicationUser *ApplicationUser `json:"applicationUser,omitempty" validate:"-"`
}

// EntityID reports the server-assigned id, if any.
func (v Vaccine) EntityID() (int64, bool) {
	if v.ID == nil {
		return 0, false
	}
	return *v.ID, true
}

// OwnerID returns the referenced user's id, or 0 when none is set.
func (v Vaccine) OwnerID() int64 {
	if v.ApplicationUser == nil || v.ApplicationUser.ID == nil {
		return 0
	}
	return *v.ApplicationUser.ID
}

// Validate checks the fields a full create or replace must carry.
func (v *Vaccine) Validate() error {
	if err := Check(v); err != nil {
		return err
	}
	// only the owner's id is required; the rest of the summary is read-only
	if v.OwnerID() == 0 {
		return invalid("applicationUser", "is required")
	}
	return nil
}

// Merge copies the non-nil fields of patch onto v. The owner is not
// changed by a partial update.
func (v *Vaccine) Merge(patch Vaccine) {
	if patch.VaccineType != "" {
		v.VaccineType = patch.VaccineType
	}
	if patch.VaccinationDate != nil {
		v.VaccinationDate = patch.VaccinationDate
	}
	if patch.Doses != nil {
		v.Doses = patch.Doses
	}
}
