package models

// Clinic is a veterinary clinic that owns bookings once confirmed.
type Clinic struct {
	ID          string   `bson:"id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Phone       string   `bson:"phone" json:"phone"`
	Address     string   `bson:"address,omitempty" json:"address,omitempty"`
	LocationGeo GeoPoint `bson:"location_geo" json:"locationGeo"`
	SosEnabled  bool     `bson:"sos_enabled" json:"sosEnabled"` // clinic accepts emergency cascade offers
	FCMToken    string   `bson:"fcm_token,omitempty" json:"-"`
	Active      bool     `bson:"active" json:"active"`
}

// Pet belongs to a pet owner; bookings may cover several pets.
type Pet struct {
	ID       string  `bson:"id" json:"id"`
	OwnerID  string  `bson:"owner_id" json:"ownerId"`
	Name     string  `bson:"name" json:"name"`
	Species  string  `bson:"species" json:"species"`
	WeightKg float64 `bson:"weight_kg,omitempty" json:"weightKg,omitempty"`
}
