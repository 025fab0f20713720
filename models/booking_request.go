package models

// PetServiceSelection is one pet's ordered list of requested services.
type PetServiceSelection struct {
	PetID      string   `json:"petId" binding:"required"`
	ServiceIDs []string `json:"serviceIds" binding:"required,min=1"`
}

// CreateBookingRequest is the payload for placing a (possibly multi-pet) booking.
type CreateBookingRequest struct {
	OwnerID     string                `json:"ownerId" binding:"required"`
	ClinicID    string                `json:"clinicId" binding:"required"`
	Type        BookingType           `json:"type" binding:"required"`
	Date        string                `json:"date" binding:"required"` // "YYYY-MM-DD"
	Start       int                   `json:"start"`                   // minutes from midnight
	PetServices []PetServiceSelection `json:"petServices" binding:"required,min=1"`
	HomeAddress string                `json:"homeAddress,omitempty"`
	HomeGeo     *GeoPoint             `json:"homeGeo,omitempty"`
}

// SosRequest places an emergency booking and starts the cascade match.
type SosRequest struct {
	OwnerID     string   `json:"ownerId" binding:"required"`
	PetID       string   `json:"petId" binding:"required"`
	Description string   `json:"description,omitempty"`
	LocationGeo GeoPoint `json:"locationGeo" binding:"required"`
}

// SosClinicReply is a clinic's answer to a live offer.
type SosClinicReply struct {
	ClinicID string `json:"clinicId" binding:"required"`
	StaffID  string `json:"staffId,omitempty"` // optional pre-assignment on accept
	Reason   string `json:"reason,omitempty"`  // optional decline reason
}

// ShiftSetupRequest creates shifts for a staff member, optionally repeating
// the weekly pattern. RepeatWeeks is capped at 12.
type ShiftSetupRequest struct {
	StaffID     string          `json:"staffId" binding:"required"`
	ClinicID    string          `json:"clinicId" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Start       int             `json:"start"`
	End         int             `json:"end" binding:"required"`
	Overnight   bool            `json:"overnight,omitempty"`
	Breaks      []BreakInterval `json:"breaks,omitempty"`
	RepeatWeeks int             `json:"repeatWeeks,omitempty"`
}

// ShiftUpdateRequest regenerates a shift's slots. Force allows regeneration
// even when slots are already booked; affected bookings are reported back.
type ShiftUpdateRequest struct {
	Start     int             `json:"start"`
	End       int             `json:"end" binding:"required"`
	Overnight bool            `json:"overnight,omitempty"`
	Breaks    []BreakInterval `json:"breaks,omitempty"`
	Force     bool            `json:"force,omitempty"`
}

// ShiftUpdateResult reports the outcome of a shift regeneration.
type ShiftUpdateResult struct {
	Shift            *StaffShift `json:"shift"`
	OrphanedBookings []string    `json:"orphanedBookings,omitempty"`
}
