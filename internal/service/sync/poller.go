// Package sync keeps payment snapshots fresh. It polls the core marketplace
// API for every watched payment ref, stores last-known-good snapshots so a
// failed poll never blanks the UI, and reports staleness transitions as
// incidents and status events.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/kafka"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/repository"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/status"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/upstream"
	"github.com/google/uuid"
)

// ErrNoPayment is returned when a booking exists but has no payment to track.
var ErrNoPayment = errors.New("booking has no payment")

type SyncUseCase interface {
	Track(ctx context.Context, ref string) (*domain.Snapshot, error)
	TrackBooking(ctx context.Context, bookingID string) (*domain.Snapshot, error)
	Refresh(ctx context.Context, ref string, manual bool) (*domain.Snapshot, bool, error)
	Refreshing(ref string) bool
	Verify(ctx context.Context, ref string) (bool, error)
	Invalidate(ctx context.Context, ref string) error
	InitiatePayment(ctx context.Context, bookingID string) (authorizationURL, ref string, err error)
	Incidents(ctx context.Context, includeResolved bool) ([]domain.Incident, error)
	Sweep(ctx context.Context) (int, error)
}

type Upstream interface {
	GetPayment(ctx context.Context, ref string) (*domain.Payment, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	VerifyPayment(ctx context.Context, ref string) (bool, error)
	InitiatePayment(ctx context.Context, bookingID string) (authorizationURL, ref string, err error)
}

type Cache interface {
	GetSnapshot(ctx context.Context, ref string) (*domain.Snapshot, error)
	SetSnapshot(ctx context.Context, snap *domain.Snapshot) error
	DeleteSnapshot(ctx context.Context, ref string) error
	AddWatch(ctx context.Context, ref string, ttl time.Duration) error
	IsWatched(ctx context.Context, ref string) (bool, error)
	Watches(ctx context.Context) ([]string, error)
	RemoveWatch(ctx context.Context, ref string) error
	AcquireRefreshLock(ctx context.Context, ref string, ttl time.Duration) (bool, error)
	ReleaseRefreshLock(ctx context.Context, ref string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SyncService struct {
	upstream    Upstream
	cache       Cache
	incidents   repository.IncidentRepository
	producer    Producer
	statusTopic string
	alertsTopic string
	thresholds  status.Thresholds
	clock       status.Clock
	watchTTL    time.Duration
	lockTTL     time.Duration

	mu       gosync.Mutex
	inflight map[string]bool
}

type SyncServiceOption func(*SyncService)

func WithAlertsTopic(topic string) SyncServiceOption {
	return func(s *SyncService) {
		s.alertsTopic = topic
	}
}

func WithClock(clock status.Clock) SyncServiceOption {
	return func(s *SyncService) {
		s.clock = clock
	}
}

func NewSyncService(
	up Upstream,
	cache Cache,
	incidents repository.IncidentRepository,
	producer Producer,
	statusTopic string,
	thresholds status.Thresholds,
	watchTTL, lockTTL time.Duration,
	opts ...SyncServiceOption,
) *SyncService {
	service := &SyncService{
		upstream:    up,
		cache:       cache,
		incidents:   incidents,
		producer:    producer,
		statusTopic: statusTopic,
		thresholds:  thresholds,
		clock:       status.SystemClock(),
		watchTTL:    watchTTL,
		lockTTL:     lockTTL,
		inflight:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Track registers (or renews) a watch for ref and returns its snapshot,
// fetching synchronously when none is cached yet. A caller that gets back
// Loaded=false has no data to show and should render a loading state.
func (s *SyncService) Track(ctx context.Context, ref string) (*domain.Snapshot, error) {
	if ref == "" {
		return nil, errors.New("payment ref is required")
	}

	if err := s.cache.AddWatch(ctx, ref, s.watchTTL); err != nil {
		log.Printf("add watch for %s: %v", ref, err)
	}

	snap, err := s.cache.GetSnapshot(ctx, ref)
	if err != nil {
		log.Printf("read snapshot for %s: %v", ref, err)
	}
	if snap != nil {
		return snap, nil
	}

	snap, _, err = s.Refresh(ctx, ref, false)
	return snap, err
}

// TrackBooking resolves a booking to its payment ref and tracks that.
func (s *SyncService) TrackBooking(ctx context.Context, bookingID string) (*domain.Snapshot, error) {
	if bookingID == "" {
		return nil, errors.New("booking id is required")
	}

	booking, err := s.upstream.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentRef == "" {
		return nil, ErrNoPayment
	}

	snap, err := s.Track(ctx, booking.PaymentRef)
	if err != nil {
		return nil, err
	}
	if snap.Booking == nil {
		withBooking := *snap
		withBooking.Booking = booking
		snap = &withBooking
	}
	return snap, nil
}

// Refresh re-fetches the payment and its booking. Refreshes are serialized
// per ref: while one is in flight, further calls (a second manual click, an
// overlapping sweep tick) are no-ops that return the current snapshot with
// started=false. When two refreshes do overlap across instances, whichever
// response lands last wins; no request sequencing is applied.
func (s *SyncService) Refresh(ctx context.Context, ref string, manual bool) (*domain.Snapshot, bool, error) {
	if ref == "" {
		return nil, false, errors.New("payment ref is required")
	}

	if manual {
		// A user asking for a refresh is actively watching this payment.
		if err := s.cache.AddWatch(ctx, ref, s.watchTTL); err != nil {
			log.Printf("renew watch for %s: %v", ref, err)
		}
	}

	if !s.beginRefresh(ref) {
		return s.currentSnapshot(ctx, ref), false, nil
	}
	defer s.endRefresh(ref)

	locked, err := s.cache.AcquireRefreshLock(ctx, ref, s.lockTTL)
	if err != nil {
		// Redis being down must not stop refreshes; the local guard still holds.
		log.Printf("acquire refresh lock for %s: %v", ref, err)
		locked = true
	}
	if !locked {
		return s.currentSnapshot(ctx, ref), false, nil
	}
	defer func() {
		if err := s.cache.ReleaseRefreshLock(ctx, ref); err != nil {
			log.Printf("release refresh lock for %s: %v", ref, err)
		}
	}()

	old, err := s.cache.GetSnapshot(ctx, ref)
	if err != nil {
		log.Printf("read snapshot for %s: %v", ref, err)
	}

	snap, fetched := s.fetch(ctx, ref, old)

	watched, err := s.cache.IsWatched(ctx, ref)
	if err != nil {
		log.Printf("check watch for %s: %v", ref, err)
		watched = true
	}
	if !watched {
		// The watch lapsed while the fetch was in flight; the result is
		// returned to the caller but not applied to shared state.
		return snap, true, nil
	}

	// A failed fetch observed nothing, so it cannot witness a transition.
	if fetched {
		s.applyTransitions(ctx, old, snap)
	}

	if err := s.cache.SetSnapshot(ctx, snap); err != nil {
		log.Printf("store snapshot for %s: %v", ref, err)
	}
	return snap, true, nil
}

// Refreshing reports whether a refresh for ref is in flight on this instance.
func (s *SyncService) Refreshing(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[ref]
}

// Verify asks the core API to reconcile ref with the payment gateway. The
// result is reported to the caller only; the snapshot is untouched and the
// next poll picks up whatever the reconciliation changed. Verification is
// never retried automatically.
func (s *SyncService) Verify(ctx context.Context, ref string) (bool, error) {
	if ref == "" {
		return false, errors.New("payment ref is required")
	}
	return s.upstream.VerifyPayment(ctx, ref)
}

// Invalidate forgets everything about ref: cached snapshot and watch. The
// next Track starts from scratch.
func (s *SyncService) Invalidate(ctx context.Context, ref string) error {
	if err := s.cache.DeleteSnapshot(ctx, ref); err != nil {
		return err
	}
	return s.cache.RemoveWatch(ctx, ref)
}

// InitiatePayment starts an online payment for a booking upstream and begins
// tracking the returned ref.
func (s *SyncService) InitiatePayment(ctx context.Context, bookingID string) (string, string, error) {
	if bookingID == "" {
		return "", "", errors.New("booking id is required")
	}

	authorizationURL, ref, err := s.upstream.InitiatePayment(ctx, bookingID)
	if err != nil {
		return "", "", err
	}

	if _, err := s.Track(ctx, ref); err != nil {
		log.Printf("track new payment %s: %v", ref, err)
	}
	return authorizationURL, ref, nil
}

func (s *SyncService) Incidents(ctx context.Context, includeResolved bool) ([]domain.Incident, error) {
	return s.incidents.List(ctx, includeResolved)
}

// Sweep refreshes every watched ref once. The worker calls this on a ticker;
// refs already being refreshed elsewhere are skipped, not queued.
func (s *SyncService) Sweep(ctx context.Context) (int, error) {
	refs, err := s.cache.Watches(ctx)
	if err != nil {
		return 0, fmt.Errorf("list watches: %w", err)
	}

	refreshed := 0
	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return refreshed, ctx.Err()
		default:
		}

		_, started, err := s.Refresh(ctx, ref, false)
		if err != nil {
			log.Printf("sweep refresh %s: %v", ref, err)
			continue
		}
		if started {
			refreshed++
		}
	}
	return refreshed, nil
}

func (s *SyncService) beginRefresh(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[ref] {
		return false
	}
	s.inflight[ref] = true
	return true
}

func (s *SyncService) endRefresh(ref string) {
	s.mu.Lock()
	delete(s.inflight, ref)
	s.mu.Unlock()
}

func (s *SyncService) currentSnapshot(ctx context.Context, ref string) *domain.Snapshot {
	snap, err := s.cache.GetSnapshot(ctx, ref)
	if err != nil {
		log.Printf("read snapshot for %s: %v", ref, err)
	}
	if snap == nil {
		return &domain.Snapshot{Ref: ref}
	}
	return snap
}

// fetch builds the next snapshot for ref. Fetch failures keep the previous
// snapshot's data and only replace the error message; a payment without its
// booking is still a usable result.
func (s *SyncService) fetch(ctx context.Context, ref string, old *domain.Snapshot) (*domain.Snapshot, bool) {
	payment, err := s.upstream.GetPayment(ctx, ref)
	if err != nil {
		log.Printf("fetch payment %s: %v", ref, err)
		if old != nil {
			failed := *old
			failed.Error = humanError(err)
			return &failed, false
		}
		return &domain.Snapshot{Ref: ref, Error: humanError(err)}, false
	}

	snap := &domain.Snapshot{
		Ref:         ref,
		Payment:     payment,
		Loaded:      true,
		LastUpdated: s.clock.Now(),
	}

	if payment.BookingID != "" {
		booking, err := s.upstream.GetBooking(ctx, payment.BookingID)
		if err != nil {
			log.Printf("fetch booking %s: %v", payment.BookingID, err)
			if old != nil {
				snap.Booking = old.Booking
			}
		} else {
			snap.Booking = booking
		}
	}
	return snap, true
}

// applyTransitions compares the new snapshot against the previous one and
// records what changed: status-change events, stuck/release-stuck incidents
// on entry, recovery on exit. Repeat observations of the same condition bump
// the incident without re-publishing.
func (s *SyncService) applyTransitions(ctx context.Context, old, snap *domain.Snapshot) {
	if snap.Payment == nil {
		return
	}
	payment := snap.Payment
	now := s.clock.Now()
	newFlag := s.staleFlagFor(payment, now)

	oldFlag := ""
	oldKnown := false
	var oldStatus domain.PaymentStatus
	if old != nil && old.Loaded {
		oldFlag = old.StaleFlag
		oldKnown = true
		if old.Payment != nil {
			oldStatus = old.Payment.Status
		}
	}
	snap.StaleFlag = newFlag

	if oldKnown && oldStatus != "" && oldStatus != payment.Status {
		s.publish(ctx, kafka.EventStatusChanged, snap, status.AgeMinutes(payment.CreatedAt, now))
	}

	switch newFlag {
	case domain.StaleFlagStuck, domain.StaleFlagReleaseStuck:
		kind := domain.IncidentKindPaymentStuck
		since := payment.CreatedAt
		if newFlag == domain.StaleFlagReleaseStuck {
			kind = domain.IncidentKindReleaseStuck
			since = releaseTimestamp(payment)
		}
		age := status.AgeMinutes(since, now)

		incident := &domain.Incident{
			ID:            uuid.NewString(),
			PaymentRef:    snap.Ref,
			BookingID:     payment.BookingID,
			Kind:          kind,
			PaymentStatus: payment.Status,
			AgeMinutes:    age,
		}
		if err := s.incidents.OpenOrTouch(ctx, incident); err != nil {
			log.Printf("open incident for %s: %v", snap.Ref, err)
		}
		if oldFlag != newFlag {
			eventType := kafka.EventPaymentStuck
			if kind == domain.IncidentKindReleaseStuck {
				eventType = kafka.EventReleaseStuck
			}
			s.publish(ctx, eventType, snap, age)
		}

	case domain.StaleFlagDelayed:
		if oldFlag != domain.StaleFlagDelayed {
			s.publish(ctx, kafka.EventPaymentDelayed, snap, status.AgeMinutes(payment.CreatedAt, now))
		}

	default:
		wasStuck := oldFlag == domain.StaleFlagStuck || oldFlag == domain.StaleFlagReleaseStuck
		if !oldKnown {
			// No previous snapshot to compare against: ask the incident store.
			open, err := s.incidents.GetOpenByRef(ctx, snap.Ref)
			if err != nil {
				log.Printf("look up incident for %s: %v", snap.Ref, err)
			}
			wasStuck = open != nil
		}
		if !wasStuck {
			return
		}
		resolved, err := s.incidents.Resolve(ctx, snap.Ref, fmt.Sprintf("payment status %s", payment.Status))
		if err != nil {
			log.Printf("resolve incidents for %s: %v", snap.Ref, err)
			return
		}
		if len(resolved) > 0 {
			s.publish(ctx, kafka.EventPaymentRecovered, snap, status.AgeMinutes(payment.CreatedAt, now))
		}
	}
}

func (s *SyncService) staleFlagFor(p *domain.Payment, now time.Time) string {
	switch {
	case p.Method == domain.PaymentMethodCash:
		return ""
	case p.Status == domain.PaymentStatusPending && s.thresholds.IsStuck(p.CreatedAt, now):
		return domain.StaleFlagStuck
	case p.Status == domain.PaymentStatusPending && s.thresholds.IsDelayed(p.CreatedAt, now):
		return domain.StaleFlagDelayed
	case p.Status == domain.PaymentStatusProcessingRelease && s.thresholds.IsReleaseStuck(releaseTimestamp(p), now):
		return domain.StaleFlagReleaseStuck
	default:
		return ""
	}
}

func (s *SyncService) publish(ctx context.Context, eventType string, snap *domain.Snapshot, ageMinutes float64) {
	if s.producer == nil || s.statusTopic == "" {
		return
	}

	event := kafka.StatusEvent{
		Type:          eventType,
		Ref:           snap.Ref,
		BookingID:     snap.Payment.BookingID,
		PaymentStatus: string(snap.Payment.Status),
		AgeMinutes:    ageMinutes,
		OccurredAt:    s.clock.Now(),
	}
	if snap.Booking != nil {
		event.BookingStatus = string(snap.Booking.Status)
	}

	if err := s.producer.Publish(ctx, s.statusTopic, snap.Ref, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for payment %s: %v", eventType, snap.Ref, err)
	}
	if s.alertsTopic == "" {
		return
	}
	if eventType == kafka.EventPaymentStuck || eventType == kafka.EventReleaseStuck {
		if err := s.producer.Publish(ctx, s.alertsTopic, snap.Ref, event); err != nil {
			log.Printf("WARNING: failed to publish alert for payment %s: %v", snap.Ref, err)
		}
	}
}

func releaseTimestamp(p *domain.Payment) time.Time {
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

func humanError(err error) string {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return "Payment not found."
	case errors.Is(err, upstream.ErrUnavailable):
		return "Could not reach the payment service. Showing the last known status."
	default:
		return "Failed to refresh the payment status."
	}
}

var _ SyncUseCase = (*SyncService)(nil)
