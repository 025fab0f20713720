package booking

import (
	"context"
	"fmt"
	"sync"

	shiftRepo "petties/database/repository/shift"
	"petties/models"
)

// In-memory repository fakes shared by the resolver and confirmation tests.

type fakeStaffRepo struct {
	staff []models.Staff
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*models.Staff, error) {
	for i := range r.staff {
		if r.staff[i].ID == id {
			return &r.staff[i], nil
		}
	}
	return nil, fmt.Errorf("staff %s not found", id)
}

func (r *fakeStaffRepo) ListActiveByClinic(_ context.Context, clinicID string) ([]models.Staff, error) {
	var out []models.Staff
	for _, s := range r.staff {
		if s.ClinicID == clinicID && s.Status == models.StaffActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts []models.StaffShift
	slots  []models.Slot
}

func slotGridFor(sh models.StaffShift) []models.Slot {
	var out []models.Slot
	for start := sh.Start; start+models.SlotMinutes <= sh.End; start += models.SlotMinutes {
		if sh.InBreak(start, start+models.SlotMinutes) {
			continue
		}
		out = append(out, models.Slot{
			ID:      fmt.Sprintf("%s-%d", sh.ID, start),
			ShiftID: sh.ID,
			StaffID: sh.StaffID,
			Date:    sh.Date,
			Start:   start,
			End:     start + models.SlotMinutes,
			Status:  models.SlotAvailable,
		})
	}
	return out
}

func (r *fakeShiftRepo) addShift(sh models.StaffShift) {
	r.shifts = append(r.shifts, sh)
	r.slots = append(r.slots, slotGridFor(sh)...)
}

func (r *fakeShiftRepo) markBooked(staffID, date string, start, end int) {
	for i := range r.slots {
		sl := &r.slots[i]
		if sl.StaffID == staffID && sl.Date == date && sl.Start >= start && sl.Start < end {
			sl.Status = models.SlotBooked
		}
	}
}

func (r *fakeShiftRepo) GetShift(_ context.Context, id string) (*models.StaffShift, error) {
	for i := range r.shifts {
		if r.shifts[i].ID == id {
			return &r.shifts[i], nil
		}
	}
	return nil, fmt.Errorf("shift %s not found", id)
}

func (r *fakeShiftRepo) CreateShift(_ context.Context, s *models.StaffShift, slots []models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts = append(r.shifts, *s)
	r.slots = append(r.slots, slots...)
	return nil
}

func (r *fakeShiftRepo) ListShiftsByStaffAndDate(_ context.Context, staffID, date string) ([]models.StaffShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StaffShift
	for _, sh := range r.shifts {
		if sh.StaffID == staffID && sh.Date == date {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) ListSlots(_ context.Context, staffID, date string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, sl := range r.slots {
		if sl.StaffID == staffID && sl.Date == date {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) ListSlotsByShift(_ context.Context, shiftID string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, sl := range r.slots {
		if sl.ShiftID == shiftID {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) ReplaceShiftSlots(_ context.Context, s *models.StaffShift, slots []models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.slots[:0]
	for _, sl := range r.slots {
		if sl.ShiftID != s.ID {
			kept = append(kept, sl)
		}
	}
	r.slots = append(kept, slots...)
	for i := range r.shifts {
		if r.shifts[i].ID == s.ID {
			r.shifts[i] = *s
		}
	}
	return nil
}

func (r *fakeShiftRepo) ClaimSlots(_ context.Context, staffID, date string, start, end int, bookingID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	needed := (end - start) / models.SlotMinutes
	var hits []*models.Slot
	for i := range r.slots {
		sl := &r.slots[i]
		if sl.StaffID == staffID && sl.Date == date && sl.Start >= start && sl.Start < end {
			if sl.Status != models.SlotAvailable {
				return shiftRepo.ErrSlotConflict
			}
			hits = append(hits, sl)
		}
	}
	if len(hits) != needed {
		return shiftRepo.ErrSlotConflict
	}
	for _, sl := range hits {
		sl.Status = models.SlotBooked
		sl.BookingID = bookingID
		sl.ServiceItemID = itemID
	}
	return nil
}

func (r *fakeShiftRepo) ReleaseSlots(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		sl := &r.slots[i]
		if sl.BookingID == bookingID {
			sl.Status = models.SlotAvailable
			sl.BookingID = ""
			sl.ServiceItemID = ""
		}
	}
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	counts   map[string]int // staffID|date -> same-day assignments
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*models.Booking),
		counts:   make(map[string]int),
	}
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	cp := *b
	cp.ServiceItems = append([]models.BookingServiceItem(nil), b.ServiceItems...)
	return &cp, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return fmt.Errorf("booking %s not found", b.ID)
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) CountByStaffAndDate(_ context.Context, staffID, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[staffID+"|"+date], nil
}

type fakeBookingCache struct {
	mu      sync.Mutex
	entries map[string]models.Booking
	hits    int
}

func newFakeBookingCache() *fakeBookingCache {
	return &fakeBookingCache{entries: make(map[string]models.Booking)}
}

func (c *fakeBookingCache) Get(_ context.Context, id string) (*models.Booking, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	c.hits++
	cp := b
	cp.ServiceItems = append([]models.BookingServiceItem(nil), b.ServiceItems...)
	return &cp, true
}

func (c *fakeBookingCache) Set(_ context.Context, b *models.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *b
	cp.ServiceItems = append([]models.BookingServiceItem(nil), b.ServiceItems...)
	c.entries[b.ID] = cp
}

func (c *fakeBookingCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

type fakeCatalogRepo struct {
	pets     map[string]models.Pet
	services map[string]models.Service
}

func (r *fakeCatalogRepo) GetPet(_ context.Context, id string) (*models.Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s not found", id)
	}
	return &p, nil
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s not found", id)
	}
	return &s, nil
}
