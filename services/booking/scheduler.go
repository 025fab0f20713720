package booking

import "petties/models"

// ScheduledInterval is one allocated time block, minutes from midnight.
type ScheduledInterval struct {
	Start int
	End   int
}

// SlotsRequired returns how many 30-minute slots a duration consumes.
// A zero/unset duration defaults to a single slot.
func SlotsRequired(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 1
	}
	n := durationMinutes / models.SlotMinutes
	if durationMinutes%models.SlotMinutes != 0 {
		n++
	}
	return n
}

// RoundedDuration rounds a duration up to a whole multiple of the slot length.
func RoundedDuration(durationMinutes int) int {
	return SlotsRequired(durationMinutes) * models.SlotMinutes
}

// ComputeSchedule assigns a start/end block to every service item, keyed by
// item id. Items of the same pet run sequentially in their requested order;
// items of different pets run in parallel rounds.
//
// Each pet keeps a next-available cursor starting at baseStart. A round
// starts at the minimum cursor among pets with pending items; every pet whose
// cursor sits exactly at the round start gets its next item allocated there,
// pets already past the round start sit the round out. Allocated blocks are
// always whole multiples of the slot length. The result is deterministic for
// a given item order.
func ComputeSchedule(items []models.BookingServiceItem, baseStart int) map[string]ScheduledInterval {
	out := make(map[string]ScheduledInterval, len(items))
	if len(items) == 0 {
		return out
	}

	// Group by pet, preserving each pet's requested item order and the
	// pets' order of first appearance.
	var petOrder []string
	queues := make(map[string][]models.BookingServiceItem)
	for _, it := range items {
		if _, seen := queues[it.PetID]; !seen {
			petOrder = append(petOrder, it.PetID)
		}
		queues[it.PetID] = append(queues[it.PetID], it)
	}

	cursors := make(map[string]int, len(petOrder))
	for _, pet := range petOrder {
		cursors[pet] = baseStart
	}

	for {
		// Round start: earliest cursor among pets with pending items.
		roundStart := -1
		for _, pet := range petOrder {
			if len(queues[pet]) == 0 {
				continue
			}
			if roundStart == -1 || cursors[pet] < roundStart {
				roundStart = cursors[pet]
			}
		}
		if roundStart == -1 {
			break // all queues exhausted
		}

		for _, pet := range petOrder {
			if len(queues[pet]) == 0 || cursors[pet] != roundStart {
				continue
			}
			it := queues[pet][0]
			queues[pet] = queues[pet][1:]
			end := roundStart + RoundedDuration(it.DurationMinutes)
			out[it.ID] = ScheduledInterval{Start: roundStart, End: end}
			cursors[pet] = end
		}
	}

	return out
}

// ApplySchedule recomputes and writes scheduled times onto a booking's items.
func ApplySchedule(b *models.Booking) {
	schedule := ComputeSchedule(b.ServiceItems, b.Start)
	for i := range b.ServiceItems {
		it := &b.ServiceItems[i]
		if iv, ok := schedule[it.ID]; ok {
			it.ScheduledStart = iv.Start
			it.ScheduledEnd = iv.End
		}
	}
}
