// Package sweep restores the single-winner invariant after uncoordinated
// concurrent bookings. The booking services run on many instances with no
// shared lock; several of them can append a Submitted shipment for the
// same request. A periodic sweep picks exactly one winner per request and
// compensates every other contender.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/pkg/clock"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultGroupParallelism = 4

type RequestStore interface {
	// GetMany returns the requests that exist; absent ids are simply
	// missing from the result.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*booking.Request, error)
	SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.RequestStatus) (*booking.Request, error)
	ListIssuedExpiredBefore(ctx context.Context, cutoff time.Time) ([]*booking.Request, error)
}

type OfferStore interface {
	SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.OfferStatus) (booking.Offer, error)
}

type ShipmentStore interface {
	ListSubmitted(ctx context.Context) ([]booking.Shipment, error)
	HasConfirmedForRequest(ctx context.Context, requestID uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.ShipmentStatus) (booking.Shipment, error)
}

// Notifier is fire-and-forget: failures are logged by the sweeper and
// never interrupt reconciliation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string) error
}

type Sweeper struct {
	requests    RequestStore
	offers      OfferStore
	shipments   ShipmentStore
	notifier    Notifier
	clock       clock.Clock
	logger      *slog.Logger
	parallelism int
}

func NewSweeper(
	requests RequestStore,
	offers OfferStore,
	shipments ShipmentStore,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
	parallelism int,
) *Sweeper {
	if parallelism <= 0 {
		parallelism = defaultGroupParallelism
	}
	return &Sweeper{
		requests:    requests,
		offers:      offers,
		shipments:   shipments,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Sweep runs one reconciliation pass. It never returns an error: every
// per-shipment or per-group failure is logged and retried on the next
// pass, which only touches records still in a non-terminal state.
func (s *Sweeper) Sweep(ctx context.Context) {
	s.expireRequests(ctx)
	s.reconcileShipments(ctx)
}

// expireRequests closes Issued requests whose expiry has passed, so the
// Expired status is reachable without a human in the loop.
func (s *Sweeper) expireRequests(ctx context.Context) {
	expired, err := s.requests.ListIssuedExpiredBefore(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to list expired requests", "error", err)
		return
	}

	for _, req := range expired {
		if _, err := s.requests.SetStatus(ctx, req.ID(), req.Version(), booking.RequestExpired); err != nil {
			// Another process advanced the request; nothing to repair.
			s.logger.Info("skipped expiring request", "request_id", req.ID(), "error", err)
		}
	}
}

func (s *Sweeper) reconcileShipments(ctx context.Context) {
	shipments, err := s.shipments.ListSubmitted(ctx)
	if err != nil {
		s.logger.Error("failed to list submitted shipments", "error", err)
		return
	}
	if len(shipments) == 0 {
		s.logger.Info("no submitted shipments found")
		return
	}

	groups := make(map[uuid.UUID][]booking.Shipment)
	for _, sh := range shipments {
		groups[sh.RequestID()] = append(groups[sh.RequestID()], sh)
	}

	ids := make([]uuid.UUID, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}

	loaded, err := s.requests.GetMany(ctx, ids)
	if err != nil {
		s.logger.Error("failed to fetch requests for submitted shipments", "error", err)
		return
	}
	requests := make(map[uuid.UUID]*booking.Request, len(loaded))
	for _, req := range loaded {
		requests[req.ID()] = req
	}

	// Groups are independent; the three dependent writes within a group
	// stay sequential.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for requestID, group := range groups {
		g.Go(func() error {
			s.reconcileGroup(gctx, requestID, requests[requestID], group)
			return nil
		})
	}
	_ = g.Wait()
}

// reconcileGroup settles every Submitted shipment of one request. req is
// nil when the owning request no longer exists.
func (s *Sweeper) reconcileGroup(ctx context.Context, requestID uuid.UUID, req *booking.Request, group []booking.Shipment) {
	if req == nil {
		s.logger.Warn("request not found for submitted shipments", "request_id", requestID, "shipments", len(group))
		for _, sh := range group {
			if _, err := s.shipments.SetStatus(ctx, sh.ID(), sh.Version(), booking.ShipmentAborted); err != nil {
				s.logger.Error("failed to abort shipment", "shipment_id", sh.ID(), "error", err)
			}
		}
		return
	}

	winner, ok := s.pickWinner(ctx, requestID, group)
	if !ok {
		return
	}

	for _, sh := range group {
		offer, found := req.FindOffer(sh.OfferID())
		if !found {
			// Left Submitted on purpose; retried on the next sweep.
			s.logger.Error("no matching offer found for shipment", "shipment_id", sh.ID(), "offer_id", sh.OfferID())
			continue
		}

		if winner != nil && sh.ID() == winner.ID() {
			s.confirm(ctx, req, offer, sh)
			continue
		}
		s.revert(ctx, offer, sh)
	}
}

// pickWinner returns the earliest-booked shipment of the group, or nil
// when a Confirmed sibling already exists (a previous pass settled the
// winner and only the compensation writes are left). The second return
// is false when the check itself failed and the group must wait for the
// next pass.
func (s *Sweeper) pickWinner(ctx context.Context, requestID uuid.UUID, group []booking.Shipment) (*booking.Shipment, bool) {
	confirmed, err := s.shipments.HasConfirmedForRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("failed to check confirmed shipment", "request_id", requestID, "error", err)
		return nil, false
	}
	if confirmed {
		return nil, true
	}

	winner := group[0]
	for _, sh := range group[1:] {
		if sh.BookedBefore(winner) {
			winner = sh
		}
	}
	return &winner, true
}

func (s *Sweeper) confirm(ctx context.Context, req *booking.Request, offer booking.Offer, sh booking.Shipment) {
	if _, err := s.shipments.SetStatus(ctx, sh.ID(), sh.Version(), booking.ShipmentConfirmed); err != nil {
		s.logger.Error("failed to confirm shipment", "shipment_id", sh.ID(), "error", err)
		return
	}
	if _, err := s.requests.SetStatus(ctx, req.ID(), req.Version(), booking.RequestBooked); err != nil {
		s.logger.Error("failed to book request", "request_id", req.ID(), "error", err)
		return
	}
	if _, err := s.offers.SetStatus(ctx, offer.ID(), offer.Version(), booking.OfferAccepted); err != nil {
		s.logger.Error("failed to accept offer", "offer_id", offer.ID(), "error", err)
		return
	}

	s.notify(ctx, req.ShipperID(), "Shipment confirmed", "Congrats! You will get your product delivered!")
	s.notify(ctx, offer.CarrierID(), "Shipment confirmed", "Congrats! You have a job to do!")
}

func (s *Sweeper) revert(ctx context.Context, offer booking.Offer, sh booking.Shipment) {
	if _, err := s.shipments.SetStatus(ctx, sh.ID(), sh.Version(), booking.ShipmentReverted); err != nil {
		s.logger.Error("failed to revert shipment", "shipment_id", sh.ID(), "error", err)
		return
	}
	if _, err := s.offers.SetStatus(ctx, offer.ID(), offer.Version(), booking.OfferRejected); err != nil {
		s.logger.Error("failed to reject offer", "offer_id", offer.ID(), "error", err)
		return
	}

	s.notify(ctx, offer.CarrierID(), "Offer rejected", "Unfortunately your offer was rejected :(")
}

func (s *Sweeper) notify(ctx context.Context, userID uuid.UUID, title, message string) {
	if err := s.notifier.Notify(ctx, userID, title, message); err != nil {
		s.logger.Warn("failed to send notification", "user_id", userID, "title", title, "error", err)
	}
}
