package models

// TimeWindow is a half-open interval in minutes from midnight.
type TimeWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// VetCandidate is one staff member able to cover service items in a window,
// with the load figure used for ranking.
type VetCandidate struct {
	StaffID          string    `json:"staffId"`
	Name             string    `json:"name"`
	Specialty        Specialty `json:"specialty"`
	BookingCount     int       `json:"bookingCount"` // same-day assignments, ascending rank key
	IsSuggested      bool      `json:"isSuggested"`
	CoverableItemIDs []string  `json:"coverableItemIds,omitempty"`
}

// AlternativeSlot is the nearest future opening suggested when no candidate
// qualifies for the requested window.
type AlternativeSlot struct {
	Date    string `json:"date"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	StaffID string `json:"staffId"`
}

// AvailabilityResult is the resolver's answer for one specialty + window.
type AvailabilityResult struct {
	Candidates        []VetCandidate   `json:"candidates"`
	UnavailableReason string           `json:"unavailableReason,omitempty"`
	Alternative       *AlternativeSlot `json:"alternative,omitempty"`
}

// ServiceItemStatus reports, per service item, how confirmation resolved it.
type ServiceItemStatus struct {
	ServiceItemID     string           `json:"serviceItemId"`
	StaffID           string           `json:"staffId,omitempty"`
	Assigned          bool             `json:"assigned"`
	Removed           bool             `json:"removed,omitempty"`
	UnavailableReason string           `json:"unavailableReason,omitempty"`
	Alternative       *AlternativeSlot `json:"alternative,omitempty"`
}

// ConfirmOptions are the manager-facing knobs for confirming a booking.
type ConfirmOptions struct {
	SelectedVetID             string `json:"selectedVetId,omitempty"`
	AllowPartial              bool   `json:"allowPartial,omitempty"`
	RemoveUnavailableServices bool   `json:"removeUnavailableServices,omitempty"`
}

// ConfirmationResult is returned by the confirmation flow.
type ConfirmationResult struct {
	Booking      *Booking            `json:"booking"`
	ItemStatuses []ServiceItemStatus `json:"itemStatuses"`
}

// AvailabilityCheckRequest asks the resolver about one booking's items.
type AvailabilityCheckRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// AvailabilityCheckResult carries per-service availability for a manager UI.
type AvailabilityCheckResult struct {
	BookingID string                        `json:"bookingId"`
	Services  map[string]AvailabilityResult `json:"services"` // keyed by service item id
}
