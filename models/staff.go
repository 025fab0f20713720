package models

// Specialty is a staff qualification required by a service category.
type Specialty string

const (
	SpecialtyVetGeneral Specialty = "VET_GENERAL"
	SpecialtyVetDental  Specialty = "VET_DENTAL"
	SpecialtyVetSurgery Specialty = "VET_SURGERY"
	SpecialtyGroomer    Specialty = "GROOMER"
)

// categorySpecialty maps each service category to the specialty required to
// perform it. Built once, never mutated at runtime.
var categorySpecialty = map[ServiceCategory]Specialty{
	CategoryGeneral:   SpecialtyVetGeneral,
	CategoryDental:    SpecialtyVetDental,
	CategorySurgery:   SpecialtyVetSurgery,
	CategoryGrooming:  SpecialtyGroomer,
	CategoryVaccine:   SpecialtyVetGeneral,
	CategoryEmergency: SpecialtyVetGeneral,
}

// SpecialtyForCategory resolves the specialty required for a service category.
// Unknown categories fall back to the general vet specialty.
func SpecialtyForCategory(cat ServiceCategory) Specialty {
	if sp, ok := categorySpecialty[cat]; ok {
		return sp
	}
	return SpecialtyVetGeneral
}

// StaffStatus marks whether a staff member can be scheduled.
type StaffStatus string

const (
	StaffActive   StaffStatus = "ACTIVE"
	StaffInactive StaffStatus = "INACTIVE"
)

// Staff is a clinic employee that service items can be assigned to.
type Staff struct {
	ID          string      `bson:"id" json:"id"`
	ClinicID    string      `bson:"clinic_id" json:"clinicId"`
	Name        string      `bson:"name" json:"name"`
	Phone       string      `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialty   Specialty   `bson:"specialty" json:"specialty"`
	Compatible  []Specialty `bson:"compatible,omitempty" json:"compatible,omitempty"` // extra specialties the staff may cover
	Status      StaffStatus `bson:"status" json:"status"`
	FCMToken    string      `bson:"fcm_token,omitempty" json:"-"`
	DisplayRank int         `bson:"display_rank,omitempty" json:"-"`
}

// CanCover reports whether the staff member satisfies a required specialty,
// either directly or through the explicit compatible list.
func (s Staff) CanCover(required Specialty) bool {
	if s.Specialty == required {
		return true
	}
	for _, sp := range s.Compatible {
		if sp == required {
			return true
		}
	}
	return false
}
