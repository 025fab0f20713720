package models

import "time"

// BookingType distinguishes where the service happens.
type BookingType string

const (
	BookingInClinic  BookingType = "IN_CLINIC"
	BookingHomeVisit BookingType = "HOME_VISIT"
	BookingSos       BookingType = "SOS"
)

// PaymentStatus tracks the payment side of a booking. Payment processing
// itself lives outside this service; only the status field is kept here.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPending PaymentStatus = "PENDING_PAYMENT"
	PaymentPaid    PaymentStatus = "PAID"
)

// BookingServiceItem is one service instance within a booking, tied to a pet
// for multi-pet bookings. ScheduledStart/End are recomputed by the schedule
// allocator and are not a persisted source of truth.
type BookingServiceItem struct {
	ID              string  `bson:"id" json:"id"`
	BookingID       string  `bson:"booking_id" json:"bookingId"`
	PetID           string  `bson:"pet_id" json:"petId"`
	ServiceID       string  `bson:"service_id" json:"serviceId"`
	DurationMinutes int     `bson:"duration_minutes" json:"durationMinutes"`
	SlotsRequired   int     `bson:"slots_required" json:"slotsRequired"`
	StaffID         string  `bson:"staff_id,omitempty" json:"staffId,omitempty"` // empty until resolved
	ScheduledStart  int     `bson:"scheduled_start" json:"scheduledStart"`
	ScheduledEnd    int     `bson:"scheduled_end" json:"scheduledEnd"`
	UnitPrice       float64 `bson:"unit_price" json:"unitPrice"`
	BasePrice       float64 `bson:"base_price" json:"basePrice"`
	WeightPrice     float64 `bson:"weight_price,omitempty" json:"weightPrice,omitempty"`
	IsAddOn         bool    `bson:"is_add_on,omitempty" json:"isAddOn,omitempty"`
}

// Booking is the aggregate root for an appointment, possibly covering
// several pets. It is created by the pet owner at PENDING and owned by the
// clinic once confirmed.
type Booking struct {
	ID            string               `bson:"id" json:"id"`
	Code          string               `bson:"code" json:"code"`
	OwnerID       string               `bson:"owner_id" json:"ownerId"`
	ClinicID      string               `bson:"clinic_id" json:"clinicId"`
	Type          BookingType          `bson:"type" json:"type"`
	Date          string               `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start         int                  `bson:"start" json:"start"`
	Status        BookingStatus        `bson:"status" json:"status"`
	ServiceItems  []BookingServiceItem `bson:"service_items" json:"serviceItems"`
	Notes         string               `bson:"notes,omitempty" json:"notes,omitempty"`
	HomeAddress   string               `bson:"home_address,omitempty" json:"homeAddress,omitempty"`
	HomeGeo       *GeoPoint            `bson:"home_geo,omitempty" json:"homeGeo,omitempty"`
	DistanceFee   float64              `bson:"distance_fee,omitempty" json:"distanceFee,omitempty"`
	TotalPrice    float64              `bson:"total_price" json:"totalPrice"`
	PaymentStatus PaymentStatus        `bson:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updatedAt"`
}

// ItemByID returns a pointer into ServiceItems for the given item id.
func (b *Booking) ItemByID(itemID string) *BookingServiceItem {
	for i := range b.ServiceItems {
		if b.ServiceItems[i].ID == itemID {
			return &b.ServiceItems[i]
		}
	}
	return nil
}

// End returns the booking's overall end in minutes from midnight: the
// latest scheduled end across service items, or Start when none are scheduled.
func (b *Booking) End() int {
	end := b.Start
	for _, it := range b.ServiceItems {
		if it.ScheduledEnd > end {
			end = it.ScheduledEnd
		}
	}
	return end
}
