package sos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petties/models"
	bookingSvc "petties/services/booking"
)

// memBroadcaster records events and feeds them to the test over a channel.
type memBroadcaster struct {
	mu     sync.Mutex
	events []models.SosEvent
	ch     chan models.SosEvent
}

func newMemBroadcaster() *memBroadcaster {
	return &memBroadcaster{ch: make(chan models.SosEvent, 64)}
}

func (b *memBroadcaster) Broadcast(_ context.Context, ev models.SosEvent) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
	b.ch <- ev
}

func (b *memBroadcaster) all() []models.SosEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SosEvent(nil), b.events...)
}

// next blocks until an event of the wanted kind arrives, failing the test on
// timeout. Events of other kinds are consumed and discarded.
func (b *memBroadcaster) next(t *testing.T, kind models.SosEventKind) models.SosEvent {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-b.ch:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", kind)
			return models.SosEvent{}
		}
	}
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *memBookingRepo) CountByStaffAndDate(context.Context, string, string) (int, error) {
	return 0, nil
}

func (r *memBookingRepo) status(id string) models.BookingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id].Status
}

type fakeClinicRepo struct {
	clinics []models.Clinic
}

func (r *fakeClinicRepo) GetByID(_ context.Context, id string) (*models.Clinic, error) {
	for i := range r.clinics {
		if r.clinics[i].ID == id {
			return &r.clinics[i], nil
		}
	}
	return nil, fmt.Errorf("clinic %s not found", id)
}

func (r *fakeClinicRepo) FindSosWithinRadius(_ context.Context, center models.GeoPoint, radiusKm float64, limit int) ([]models.Clinic, error) {
	type scored struct {
		clinic models.Clinic
		km     float64
	}
	var in []scored
	for _, cl := range r.clinics {
		if !cl.Active || !cl.SosEnabled {
			continue
		}
		km := haversine(center.Lat(), center.Lng(), cl.LocationGeo.Lat(), cl.LocationGeo.Lng())
		if km <= radiusKm {
			in = append(in, scored{clinic: cl, km: km})
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].km < in[j].km })
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	out := make([]models.Clinic, 0, len(in))
	for _, s := range in {
		out = append(out, s.clinic)
	}
	return out, nil
}

type fakeSosStaffRepo struct{}

func (fakeSosStaffRepo) GetByID(_ context.Context, id string) (*models.Staff, error) {
	return &models.Staff{ID: id, Name: "Dr. " + id}, nil
}

func (fakeSosStaffRepo) ListActiveByClinic(context.Context, string) ([]models.Staff, error) {
	return nil, nil
}

type noopShiftRepo struct{}

func (noopShiftRepo) GetShift(context.Context, string) (*models.StaffShift, error) {
	return nil, errors.New("not implemented")
}
func (noopShiftRepo) CreateShift(context.Context, *models.StaffShift, []models.Slot) error {
	return nil
}
func (noopShiftRepo) ListShiftsByStaffAndDate(context.Context, string, string) ([]models.StaffShift, error) {
	return nil, nil
}
func (noopShiftRepo) ListSlots(context.Context, string, string) ([]models.Slot, error) {
	return nil, nil
}
func (noopShiftRepo) ListSlotsByShift(context.Context, string) ([]models.Slot, error) {
	return nil, nil
}
func (noopShiftRepo) ReplaceShiftSlots(context.Context, *models.StaffShift, []models.Slot) error {
	return nil
}
func (noopShiftRepo) ClaimSlots(context.Context, string, string, int, int, string, string) error {
	return nil
}
func (noopShiftRepo) ReleaseSlots(context.Context, string) error {
	return nil
}

func clinicAt(id string, latOffset float64) models.Clinic {
	return models.Clinic{
		ID:          id,
		Name:        "Clinic " + id,
		Phone:       "555-" + id,
		LocationGeo: models.NewGeoPoint(106.7, 10.77+latOffset),
		SosEnabled:  true,
		Active:      true,
	}
}

func testCoordinator(clinics []models.Clinic, timeout time.Duration) (*Coordinator, *memBroadcaster, *memBookingRepo) {
	broadcaster := newMemBroadcaster()
	bookings := newMemBookingRepo()
	coord := NewCoordinator(
		bookings,
		&fakeClinicRepo{clinics: clinics},
		fakeSosStaffRepo{},
		noopShiftRepo{},
		broadcaster,
		nil,
		HaversineEstimator{},
		nil,
		timeout,
		15,
		10,
		"1900-6446",
	)
	return coord, broadcaster, bookings
}

func placeTestRequest(t *testing.T, coord *Coordinator) *models.Booking {
	t.Helper()
	b, err := coord.PlaceRequest(context.Background(), models.SosRequest{
		OwnerID:     "owner-1",
		PetID:       "pet-1",
		Description: "hit by a motorbike",
		LocationGeo: models.NewGeoPoint(106.7, 10.77),
	})
	require.NoError(t, err)
	require.Equal(t, models.BookingSos, b.Type)
	require.Equal(t, models.StatusPending, b.Status)
	return b
}

func TestCascadeDeclineTimeoutThenAccept(t *testing.T) {
	// Three clinics in range ordered by distance. A declines explicitly, B
	// lets the offer expire, C accepts with a staff pre-assignment.
	clinics := []models.Clinic{
		clinicAt("A", 0.01),
		clinicAt("B", 0.02),
		clinicAt("C", 0.03),
	}
	coord, broadcaster, bookings := testCoordinator(clinics, 400*time.Millisecond)
	b := placeTestRequest(t, coord)
	ctx := context.Background()

	searching := broadcaster.next(t, models.SosEventSearching)
	assert.Equal(t, 3, searching.TotalClinicsInRange)

	offerA := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "A", offerA.Clinic.ClinicID)
	assert.Equal(t, 0, offerA.CurrentClinicIndex)
	require.NoError(t, coord.Decline(ctx, b.ID, models.SosClinicReply{ClinicID: "A", Reason: "no surgeon on site"}))

	declined := broadcaster.next(t, models.SosEventDeclined)
	assert.Equal(t, "A", declined.Clinic.ClinicID)
	assert.Equal(t, "no surgeon on site", declined.DeclineReason)

	offerB := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "B", offerB.Clinic.ClinicID)
	// B never answers; the offer times out.
	waiting := broadcaster.next(t, models.SosEventWaitingNext)
	assert.Equal(t, "B", waiting.Clinic.ClinicID)

	offerC := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "C", offerC.Clinic.ClinicID)
	require.NoError(t, coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "C", StaffID: "vet9"}))

	confirmed := broadcaster.next(t, models.SosEventConfirmed)
	assert.Equal(t, "C", confirmed.Clinic.ClinicID)
	assigned := broadcaster.next(t, models.SosEventStaffAssigned)
	assert.Equal(t, "vet9", assigned.StaffID)
	assert.Equal(t, "Dr. vet9", assigned.StaffName)

	stored, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status)
	assert.Equal(t, "C", stored.ClinicID)

	// Sequence numbers are strictly increasing per booking.
	events := broadcaster.all()
	for i := 1; i < len(events); i++ {
		assert.Equal(t, events[i-1].Seq+1, events[i].Seq)
		assert.Equal(t, b.ID, events[i].BookingID)
	}
}

func TestCascadeNoClinicInRange(t *testing.T) {
	// The only clinic is far outside the 15km radius.
	coord, broadcaster, bookings := testCoordinator([]models.Clinic{clinicAt("far", 2.0)}, time.Second)
	b := placeTestRequest(t, coord)

	searching := broadcaster.next(t, models.SosEventSearching)
	assert.Equal(t, 0, searching.TotalClinicsInRange)

	noClinic := broadcaster.next(t, models.SosEventNoClinic)
	assert.Equal(t, "1900-6446", noClinic.Hotline)

	assert.Equal(t, models.StatusPending, bookings.status(b.ID))
}

func TestCascadeSkipsDisabledClinics(t *testing.T) {
	disabled := clinicAt("off", 0.01)
	disabled.SosEnabled = false
	inactive := clinicAt("closed", 0.015)
	inactive.Active = false
	clinics := []models.Clinic{disabled, inactive, clinicAt("open", 0.02)}

	coord, broadcaster, _ := testCoordinator(clinics, time.Second)
	b := placeTestRequest(t, coord)

	searching := broadcaster.next(t, models.SosEventSearching)
	assert.Equal(t, 1, searching.TotalClinicsInRange)
	offer := broadcaster.next(t, models.SosEventClinicNotified)
	assert.Equal(t, "open", offer.Clinic.ClinicID)

	require.NoError(t, coord.Cancel(context.Background(), b.ID))
	broadcaster.next(t, models.SosEventCancelled)
}

func TestStaleAcceptRejected(t *testing.T) {
	clinics := []models.Clinic{clinicAt("A", 0.01), clinicAt("B", 0.02)}
	coord, broadcaster, _ := testCoordinator(clinics, time.Second)
	b := placeTestRequest(t, coord)
	ctx := context.Background()

	offerA := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "A", offerA.Clinic.ClinicID)

	// A clinic that does not hold the live offer cannot reply.
	err := coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "B"})
	var stale *bookingSvc.StaleOfferError
	require.True(t, errors.As(err, &stale))
	assert.Equal(t, "B", stale.ClinicID)

	require.NoError(t, coord.Decline(ctx, b.ID, models.SosClinicReply{ClinicID: "A"}))
	broadcaster.next(t, models.SosEventDeclined)

	// A's offer was consumed; a second reply from A is stale too.
	err = coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "A"})
	require.True(t, errors.As(err, &stale))

	offerB := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "B", offerB.Clinic.ClinicID)
	require.NoError(t, coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "B"}))
	broadcaster.next(t, models.SosEventConfirmed)
}

func TestAcceptAfterTerminalRejected(t *testing.T) {
	coord, broadcaster, _ := testCoordinator([]models.Clinic{clinicAt("A", 0.01)}, time.Second)
	b := placeTestRequest(t, coord)
	ctx := context.Background()

	broadcaster.next(t, models.SosEventClinicNotified)
	require.NoError(t, coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "A"}))
	broadcaster.next(t, models.SosEventConfirmed)

	// The session is gone once the cascade reached a terminal state.
	err := coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "A"})
	var stale *bookingSvc.StaleOfferError
	assert.True(t, errors.As(err, &stale))
}

func TestOwnerCancelStopsCascade(t *testing.T) {
	clinics := []models.Clinic{clinicAt("A", 0.01), clinicAt("B", 0.02)}
	coord, broadcaster, bookings := testCoordinator(clinics, time.Second)
	b := placeTestRequest(t, coord)
	ctx := context.Background()

	broadcaster.next(t, models.SosEventClinicNotified)
	require.NoError(t, coord.Cancel(ctx, b.ID))

	cancelled := broadcaster.next(t, models.SosEventCancelled)
	assert.Equal(t, models.StatusCancelled, cancelled.BookingStatus)
	assert.Equal(t, models.StatusCancelled, bookings.status(b.ID))

	// The cascade never reaches clinic B and the session is discarded.
	err := coord.Cancel(ctx, b.ID)
	var notFound *bookingSvc.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestAcceptAfterOwnerCancelRejected(t *testing.T) {
	clinics := []models.Clinic{clinicAt("A", 0.01), clinicAt("B", 0.02)}
	coord, broadcaster, _ := testCoordinator(clinics, time.Second)
	b := placeTestRequest(t, coord)
	ctx := context.Background()

	offerA := broadcaster.next(t, models.SosEventClinicNotified)
	require.Equal(t, "A", offerA.Clinic.ClinicID)
	require.NoError(t, coord.Cancel(ctx, b.ID))

	// Even while A still appears to hold the offer, a reply racing the
	// cancel must lose.
	err := coord.Accept(ctx, b.ID, models.SosClinicReply{ClinicID: "A"})
	var stale *bookingSvc.StaleOfferError
	require.True(t, errors.As(err, &stale))

	cancelled := broadcaster.next(t, models.SosEventCancelled)
	assert.Equal(t, models.StatusCancelled, cancelled.BookingStatus)
}

func TestExhaustedCascadeEndsNoClinic(t *testing.T) {
	coord, broadcaster, bookings := testCoordinator([]models.Clinic{clinicAt("A", 0.01)}, 100*time.Millisecond)
	b := placeTestRequest(t, coord)

	broadcaster.next(t, models.SosEventClinicNotified)
	broadcaster.next(t, models.SosEventWaitingNext)
	noClinic := broadcaster.next(t, models.SosEventNoClinic)
	assert.Equal(t, "1900-6446", noClinic.Hotline)
	assert.Equal(t, models.StatusPending, bookings.status(b.ID))
}

func TestHaversineDistance(t *testing.T) {
	// Ho Chi Minh City center to Thu Duc, roughly 10km.
	km := haversine(10.7769, 106.7009, 10.8494, 106.7537)
	assert.InDelta(t, 10, km, 2)
}
