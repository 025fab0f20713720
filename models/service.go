package models

// ServiceCategory groups services; each category requires exactly one staff specialty.
type ServiceCategory string

const (
	CategoryGeneral   ServiceCategory = "GENERAL"
	CategoryDental    ServiceCategory = "DENTAL"
	CategorySurgery   ServiceCategory = "SURGERY"
	CategoryGrooming  ServiceCategory = "GROOMING"
	CategoryVaccine   ServiceCategory = "VACCINATION"
	CategoryEmergency ServiceCategory = "EMERGENCY"
)

// Service is a bookable clinic service.
type Service struct {
	ID              string          `bson:"id" json:"id"`
	ClinicID        string          `bson:"clinic_id" json:"clinicId"`
	Name            string          `bson:"name" json:"name"`
	Category        ServiceCategory `bson:"category" json:"category"`
	DurationMinutes int             `bson:"duration_minutes" json:"durationMinutes"` // 0 means unspecified, defaults to one slot
	BasePrice       float64         `bson:"base_price" json:"basePrice"`
	PricePerKg      float64         `bson:"price_per_kg,omitempty" json:"pricePerKg,omitempty"` // weight surcharge per kg, 0 when flat
	IsAddOn         bool            `bson:"is_add_on,omitempty" json:"isAddOn,omitempty"`
	Active          bool            `bson:"active" json:"active"`
}
