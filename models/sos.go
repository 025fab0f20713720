package models

import "time"

// SosState is the cascade-match state of one emergency booking.
type SosState string

const (
	SosSearching      SosState = "SEARCHING"
	SosClinicNotified SosState = "CLINIC_NOTIFIED"
	SosWaitingNext    SosState = "WAITING_NEXT"
	SosConfirmed      SosState = "CONFIRMED"
	SosNoClinic       SosState = "NO_CLINIC"
	SosCancelled      SosState = "CANCELLED"
)

// SosEventKind labels one broadcast status message.
type SosEventKind string

const (
	SosEventSearching      SosEventKind = "SEARCHING"
	SosEventClinicNotified SosEventKind = "CLINIC_NOTIFIED"
	SosEventDeclined       SosEventKind = "DECLINED"
	SosEventWaitingNext    SosEventKind = "WAITING_NEXT"
	SosEventConfirmed      SosEventKind = "CONFIRMED"
	SosEventStaffAssigned  SosEventKind = "STAFF_ASSIGNED"
	SosEventNoClinic       SosEventKind = "NO_CLINIC"
	SosEventCancelled      SosEventKind = "CANCELLED"
)

// SosClinicCandidate is one clinic in the ordered cascade list.
type SosClinicCandidate struct {
	ClinicID   string  `json:"clinicId"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	DistanceKm float64 `json:"distanceKm"`
	EtaMinutes int     `json:"etaMinutes"`
}

// SosEvent is one status message in a booking's event stream. Seq is
// monotonic per booking so subscribers can drop duplicates and reorder.
type SosEvent struct {
	BookingID           string              `json:"bookingId"`
	Seq                 int64               `json:"seq"`
	Kind                SosEventKind        `json:"kind"`
	BookingStatus       BookingStatus       `json:"bookingStatus"`
	Clinic              *SosClinicCandidate `json:"clinic,omitempty"`
	CurrentClinicIndex  int                 `json:"currentClinicIndex"`
	TotalClinicsInRange int                 `json:"totalClinicsInRange,omitempty"`
	RemainingSeconds    int                 `json:"remainingSeconds,omitempty"`
	StaffID             string              `json:"staffId,omitempty"`
	StaffName           string              `json:"staffName,omitempty"`
	DeclineReason       string              `json:"declineReason,omitempty"`
	Hotline             string              `json:"hotline,omitempty"`
	At                  time.Time           `json:"at"`
}

// SosMatchSession is the ephemeral per-booking cascade state. It is owned by
// the coordinator and discarded on a terminal state; the cached copy exists
// only so the owner app can replay current progress.
type SosMatchSession struct {
	BookingID     string               `json:"bookingId"`
	OwnerID       string               `json:"ownerId"`
	Candidates    []SosClinicCandidate `json:"candidates"`
	CurrentIndex  int                  `json:"currentIndex"`
	State         SosState             `json:"state"`
	OfferDeadline time.Time            `json:"offerDeadline"`
	CreatedAt     time.Time            `json:"createdAt"`
}
