package sos

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	bookingRepo "petties/database/repository/booking"
	clinicRepo "petties/database/repository/clinic"
	shiftRepo "petties/database/repository/shift"
	staffRepo "petties/database/repository/staff"
	"petties/models"
	bookingSvc "petties/services/booking"
	"petties/services/notification"
	"petties/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clinicReply is one clinic's answer to a live offer.
type clinicReply struct {
	accepted bool
	clinicID string
	staffID  string
	reason   string
}

// matchSession is the ephemeral per-booking cascade state. It exists only in
// the coordinator's memory while the cascade runs; a JSON snapshot is cached
// for the owner app to replay progress after reconnecting.
type matchSession struct {
	bookingID   string
	ownerID     string
	candidates  []models.SosClinicCandidate
	idx         int
	state       models.SosState
	seq         int64
	offerClinic string // clinic holding the live offer, "" when none
	replyCh     chan clinicReply
	cancelCh    chan struct{}
	cancelled   bool
}

// Coordinator owns the cascade-match negotiation for SOS bookings. Exactly
// one coordinator instance owns a booking's negotiation; concurrent clinic
// replies are serialized here so only the first valid one wins.
type Coordinator struct {
	Bookings    bookingRepo.BookingRepository
	Clinics     clinicRepo.ClinicRepository
	Staff       staffRepo.StaffRepository
	Shifts      shiftRepo.ShiftRepository
	Broadcaster EventBroadcaster
	Notifier    notification.NotificationService
	Distance    DistanceEstimator
	Sessions    *redis.Client // snapshot store, may be nil in tests

	OfferTimeout  time.Duration
	RadiusKm      float64
	MaxCandidates int
	Hotline       string

	mu       sync.Mutex
	sessions map[string]*matchSession
}

func NewCoordinator(
	bookings bookingRepo.BookingRepository,
	clinics clinicRepo.ClinicRepository,
	staff staffRepo.StaffRepository,
	shifts shiftRepo.ShiftRepository,
	broadcaster EventBroadcaster,
	notifier notification.NotificationService,
	distance DistanceEstimator,
	sessions *redis.Client,
	offerTimeout time.Duration,
	radiusKm float64,
	maxCandidates int,
	hotline string,
) *Coordinator {
	return &Coordinator{
		Bookings:      bookings,
		Clinics:       clinics,
		Staff:         staff,
		Shifts:        shifts,
		Broadcaster:   broadcaster,
		Notifier:      notifier,
		Distance:      distance,
		Sessions:      sessions,
		OfferTimeout:  offerTimeout,
		RadiusKm:      radiusKm,
		MaxCandidates: maxCandidates,
		Hotline:       hotline,
		sessions:      make(map[string]*matchSession),
	}
}

// PlaceRequest creates the SOS booking, builds the ordered candidate list
// and starts the cascade in the background.
func (c *Coordinator) PlaceRequest(ctx context.Context, req models.SosRequest) (*models.Booking, error) {
	now := time.Now()
	bookingID := uuid.New().String()
	b := &models.Booking{
		ID:      bookingID,
		Code:    "SOS-" + uuid.New().String()[:8],
		OwnerID: req.OwnerID,
		Type:    models.BookingSos,
		Date:    now.Format("2006-01-02"),
		Start:   now.Hour()*60 + now.Minute(),
		Status:  models.StatusPending,
		ServiceItems: []models.BookingServiceItem{{
			ID:        uuid.New().String(),
			BookingID: bookingID,
			PetID:     req.PetID,
		}},
		Notes:         req.Description,
		HomeGeo:       &req.LocationGeo,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	candidates := c.buildCandidates(ctx, req.LocationGeo)

	sess := &matchSession{
		bookingID:  b.ID,
		ownerID:    b.OwnerID,
		candidates: candidates,
		state:      models.SosSearching,
		replyCh:    make(chan clinicReply, 1),
		cancelCh:   make(chan struct{}),
	}
	c.mu.Lock()
	c.sessions[b.ID] = sess
	c.mu.Unlock()

	go c.run(sess)
	return b, nil
}

// buildCandidates finds SOS-enabled clinics in range and orders them by
// ascending distance. Provider lookup failures degrade to haversine.
func (c *Coordinator) buildCandidates(ctx context.Context, location models.GeoPoint) []models.SosClinicCandidate {
	logger := utils.GetLogger()

	clinics, err := c.Clinics.FindSosWithinRadius(ctx, location, c.RadiusKm, c.MaxCandidates)
	if err != nil {
		logger.Error("SOS clinic search failed", zap.Error(err))
		return nil
	}

	candidates := make([]models.SosClinicCandidate, 0, len(clinics))
	for _, cl := range clinics {
		km, eta, err := c.Distance.EstimateRoute(ctx, cl.LocationGeo, location)
		if err != nil {
			km, eta, _ = HaversineEstimator{}.EstimateRoute(ctx, cl.LocationGeo, location)
		}
		candidates = append(candidates, models.SosClinicCandidate{
			ClinicID:   cl.ID,
			Name:       cl.Name,
			Phone:      cl.Phone,
			DistanceKm: km,
			EtaMinutes: eta,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].ClinicID < candidates[j].ClinicID
	})
	return candidates
}

// run drives one booking's cascade to a terminal state.
func (c *Coordinator) run(sess *matchSession) {
	ctx := context.Background()

	c.setState(sess, models.SosSearching)
	c.emit(sess, models.SosEvent{
		Kind:                models.SosEventSearching,
		BookingStatus:       models.StatusPending,
		TotalClinicsInRange: len(sess.candidates),
	})

	if len(sess.candidates) == 0 {
		c.finishNoClinic(ctx, sess)
		return
	}

	for i := range sess.candidates {
		cand := sess.candidates[i]

		c.mu.Lock()
		if sess.cancelled {
			c.mu.Unlock()
			c.finishCancelled(ctx, sess)
			return
		}
		sess.idx = i
		sess.state = models.SosClinicNotified
		sess.offerClinic = cand.ClinicID
		sess.replyCh = make(chan clinicReply, 1)
		c.mu.Unlock()
		c.saveSnapshot(ctx, sess)

		c.emit(sess, models.SosEvent{
			Kind:               models.SosEventClinicNotified,
			BookingStatus:      models.StatusPending,
			Clinic:             &cand,
			CurrentClinicIndex: i,
			RemainingSeconds:   int(c.OfferTimeout.Seconds()),
		})
		c.notifyClinic(ctx, sess, cand)

		timer := time.NewTimer(c.OfferTimeout)
		var reply clinicReply
		var got bool
		select {
		case reply = <-sess.replyCh:
			got = true
		case <-sess.cancelCh:
			timer.Stop()
			c.finishCancelled(ctx, sess)
			return
		case <-timer.C:
			// A reply may have landed in the same instant the timer
			// fired; honor it rather than dropping an acceptance.
			c.mu.Lock()
			select {
			case reply = <-sess.replyCh:
				got = true
			default:
				sess.offerClinic = ""
				sess.state = models.SosWaitingNext
			}
			c.mu.Unlock()
		}
		timer.Stop()

		if got && reply.accepted {
			c.finishConfirmed(ctx, sess, cand, reply)
			return
		}
		if got {
			c.emit(sess, models.SosEvent{
				Kind:               models.SosEventDeclined,
				BookingStatus:      models.StatusPending,
				Clinic:             &cand,
				CurrentClinicIndex: i,
				DeclineReason:      reply.reason,
			})
		} else {
			// Implicit timeout is treated like a decline.
			c.emit(sess, models.SosEvent{
				Kind:               models.SosEventWaitingNext,
				BookingStatus:      models.StatusPending,
				Clinic:             &cand,
				CurrentClinicIndex: i,
				RemainingSeconds:   0,
			})
		}
	}

	c.finishNoClinic(ctx, sess)
}

// Accept records a clinic acceptance. The coordinator is the single source
// of truth for which offer is live: an accept for any other clinic, or after
// the cascade moved on, is rejected as stale.
func (c *Coordinator) Accept(_ context.Context, bookingID string, reply models.SosClinicReply) error {
	return c.deliver(bookingID, clinicReply{
		accepted: true,
		clinicID: reply.ClinicID,
		staffID:  reply.StaffID,
	})
}

// Decline records an explicit clinic decline for the live offer.
func (c *Coordinator) Decline(_ context.Context, bookingID string, reply models.SosClinicReply) error {
	return c.deliver(bookingID, clinicReply{
		accepted: false,
		clinicID: reply.ClinicID,
		reason:   reply.Reason,
	})
}

func (c *Coordinator) deliver(bookingID string, reply clinicReply) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[bookingID]
	if !ok || sess.cancelled || sess.state != models.SosClinicNotified || sess.offerClinic != reply.clinicID {
		return &bookingSvc.StaleOfferError{BookingID: bookingID, ClinicID: reply.clinicID}
	}
	select {
	case sess.replyCh <- reply:
		sess.offerClinic = "" // offer consumed, later replies are stale
		return nil
	default:
		return &bookingSvc.StaleOfferError{BookingID: bookingID, ClinicID: reply.clinicID}
	}
}

// Cancel stops the cascade on the owner's request.
func (c *Coordinator) Cancel(_ context.Context, bookingID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[bookingID]
	if !ok {
		return bookingSvc.NewNotFoundError("sos session", bookingID)
	}
	if !sess.cancelled {
		sess.cancelled = true
		close(sess.cancelCh)
	}
	return nil
}

func (c *Coordinator) finishConfirmed(ctx context.Context, sess *matchSession, cand models.SosClinicCandidate, reply clinicReply) {
	logger := utils.GetLogger()

	b, err := c.Bookings.GetByID(ctx, sess.bookingID)
	if err == nil {
		b.ClinicID = cand.ClinicID
		if trErr := b.Transition(models.StatusConfirmed); trErr != nil {
			logger.Error("SOS confirm transition failed", zap.String("bookingID", b.ID), zap.Error(trErr))
		}
		if reply.staffID != "" {
			if trErr := b.Transition(models.StatusAssigned); trErr != nil {
				logger.Error("SOS assign transition failed", zap.String("bookingID", b.ID), zap.Error(trErr))
			}
		}
		if upErr := c.Bookings.Update(ctx, b); upErr != nil {
			logger.Error("failed to persist confirmed SOS booking", zap.String("bookingID", b.ID), zap.Error(upErr))
		}
	}

	c.setState(sess, models.SosConfirmed)
	c.emit(sess, models.SosEvent{
		Kind:               models.SosEventConfirmed,
		BookingStatus:      models.StatusConfirmed,
		Clinic:             &cand,
		CurrentClinicIndex: sess.idx,
	})

	if reply.staffID != "" {
		staffName := ""
		if c.Staff != nil {
			if st, stErr := c.Staff.GetByID(ctx, reply.staffID); stErr == nil {
				staffName = st.Name
			}
		}
		c.emit(sess, models.SosEvent{
			Kind:          models.SosEventStaffAssigned,
			BookingStatus: models.StatusAssigned,
			Clinic:        &cand,
			StaffID:       reply.staffID,
			StaffName:     staffName,
		})
	}

	c.pushOwner(ctx, sess, "Clinic found",
		cand.Name+" accepted your emergency request")
	c.remove(sess)
}

func (c *Coordinator) finishNoClinic(ctx context.Context, sess *matchSession) {
	c.setState(sess, models.SosNoClinic)
	c.emit(sess, models.SosEvent{
		Kind:          models.SosEventNoClinic,
		BookingStatus: models.StatusPending,
		Hotline:       c.Hotline,
	})
	c.pushOwner(ctx, sess, "No clinic available",
		"No clinic could take the request. Please call the hotline: "+c.Hotline)
	c.remove(sess)
}

func (c *Coordinator) finishCancelled(ctx context.Context, sess *matchSession) {
	logger := utils.GetLogger()

	b, err := c.Bookings.GetByID(ctx, sess.bookingID)
	if err == nil && !b.Status.IsTerminal() {
		if trErr := b.Transition(models.StatusCancelled); trErr == nil {
			if upErr := c.Bookings.Update(ctx, b); upErr != nil {
				logger.Error("failed to persist cancelled SOS booking", zap.String("bookingID", b.ID), zap.Error(upErr))
			}
		}
	}
	// Release any tentatively held slot.
	if c.Shifts != nil {
		if relErr := c.Shifts.ReleaseSlots(ctx, sess.bookingID); relErr != nil {
			logger.Warn("failed to release SOS slots", zap.String("bookingID", sess.bookingID), zap.Error(relErr))
		}
	}

	c.setState(sess, models.SosCancelled)
	c.emit(sess, models.SosEvent{
		Kind:          models.SosEventCancelled,
		BookingStatus: models.StatusCancelled,
	})
	c.remove(sess)
}

// emit assigns the next sequence number and broadcasts. Only the run
// goroutine emits, so seq needs no lock.
func (c *Coordinator) emit(sess *matchSession, ev models.SosEvent) {
	sess.seq++
	ev.BookingID = sess.bookingID
	ev.Seq = sess.seq
	ev.At = time.Now()
	c.Broadcaster.Broadcast(context.Background(), ev)
}

func (c *Coordinator) setState(sess *matchSession, state models.SosState) {
	c.mu.Lock()
	sess.state = state
	c.mu.Unlock()
}

func (c *Coordinator) remove(sess *matchSession) {
	c.mu.Lock()
	delete(c.sessions, sess.bookingID)
	c.mu.Unlock()
	if c.Sessions != nil {
		c.Sessions.Del(context.Background(), sessionKey(sess.bookingID))
	}
}

func (c *Coordinator) notifyClinic(ctx context.Context, sess *matchSession, cand models.SosClinicCandidate) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.SendClinicPush(ctx, cand.ClinicID, "Emergency request",
		"An SOS booking needs a response within "+c.OfferTimeout.String(),
		map[string]string{"bookingId": sess.bookingID}); err != nil {
		utils.GetLogger().Warn("SOS clinic push failed",
			zap.String("clinicID", cand.ClinicID), zap.Error(err))
	}
}

func (c *Coordinator) pushOwner(ctx context.Context, sess *matchSession, title, body string) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.SendOwnerPush(ctx, sess.ownerID, title, body,
		map[string]string{"bookingId": sess.bookingID}); err != nil {
		utils.GetLogger().Warn("SOS owner push failed",
			zap.String("bookingID", sess.bookingID), zap.Error(err))
	}
}

func sessionKey(bookingID string) string {
	return "sos:session:" + bookingID
}

// saveSnapshot caches the session so the owner app can replay progress.
func (c *Coordinator) saveSnapshot(ctx context.Context, sess *matchSession) {
	if c.Sessions == nil {
		return
	}
	c.mu.Lock()
	snapshot := models.SosMatchSession{
		BookingID:     sess.bookingID,
		OwnerID:       sess.ownerID,
		Candidates:    sess.candidates,
		CurrentIndex:  sess.idx,
		State:         sess.state,
		OfferDeadline: time.Now().Add(c.OfferTimeout),
	}
	c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.Sessions.Set(ctx, sessionKey(sess.bookingID), data, historyTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache SOS session snapshot",
			zap.String("bookingID", sess.bookingID), zap.Error(err))
	}
}
