package models

// SlotMinutes is the fixed length of one schedulable slot.
const SlotMinutes = 30

// SlotStatus is the state of a single 30-minute slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
	SlotBlocked   SlotStatus = "BLOCKED"
)

// Slot is one discrete unit of a staff member's working time.
// Start/End are minutes from midnight of the shift date; overnight shifts
// produce slots with values past 1440.
type Slot struct {
	ID            string     `bson:"id" json:"id"`
	ShiftID       string     `bson:"shift_id" json:"shiftId"`
	StaffID       string     `bson:"staff_id" json:"staffId"`
	ClinicID      string     `bson:"clinic_id" json:"clinicId"`
	Date          string     `bson:"date" json:"date"` // "YYYY-MM-DD", the shift's date
	Start         int        `bson:"start" json:"start"`
	End           int        `bson:"end" json:"end"`
	Status        SlotStatus `bson:"status" json:"status"`
	BookingID     string     `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	ServiceItemID string     `bson:"service_item_id,omitempty" json:"serviceItemId,omitempty"`
}

// BreakInterval is a sub-interval of a shift during which no slots are generated.
type BreakInterval struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// StaffShift is a staff member's working interval on a date. An overnight
// shift has End past 1440 (minutes into the following day).
type StaffShift struct {
	ID        string          `bson:"id" json:"id"`
	StaffID   string          `bson:"staff_id" json:"staffId"`
	ClinicID  string          `bson:"clinic_id" json:"clinicId"`
	Date      string          `bson:"date" json:"date"`
	Start     int             `bson:"start" json:"start"`
	End       int             `bson:"end" json:"end"`
	Overnight bool            `bson:"overnight,omitempty" json:"overnight,omitempty"`
	Breaks    []BreakInterval `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// Covers reports whether the shift interval fully contains [start, end).
func (s StaffShift) Covers(start, end int) bool {
	return s.Start <= start && end <= s.End
}

// InBreak reports whether [start, end) overlaps any break sub-interval.
func (s StaffShift) InBreak(start, end int) bool {
	for _, b := range s.Breaks {
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}
