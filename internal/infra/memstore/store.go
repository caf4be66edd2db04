// Package memstore is an in-memory implementation of the booking
// repositories. It honors the same compare-and-swap contract as the
// postgres adapter and backs unit tests and local runs.
package memstore

import (
	"context"
	"sync"
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/infra"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	requests     map[uuid.UUID]*booking.Request
	requestOrder []uuid.UUID

	offers        map[uuid.UUID]booking.Offer
	requestOffers map[uuid.UUID][]uuid.UUID // per-request creation order

	shipments     map[uuid.UUID]booking.Shipment
	shipmentOrder []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		requests:      make(map[uuid.UUID]*booking.Request),
		offers:        make(map[uuid.UUID]booking.Offer),
		requestOffers: make(map[uuid.UUID][]uuid.UUID),
		shipments:     make(map[uuid.UUID]booking.Shipment),
	}
}

func (s *Store) Requests() *RequestStore   { return &RequestStore{s: s} }
func (s *Store) Offers() *OfferStore       { return &OfferStore{s: s} }
func (s *Store) Shipments() *ShipmentStore { return &ShipmentStore{s: s} }

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return infra.WrapRepoErr("context done", ctx.Err())
	default:
		return nil
	}
}

// loadedRequest attaches the authoritative offer collection. Callers
// must hold at least a read lock.
func (s *Store) loadedRequest(base *booking.Request) *booking.Request {
	offerIDs := s.requestOffers[base.ID()]
	offers := make([]booking.Offer, 0, len(offerIDs))
	for _, id := range offerIDs {
		offers = append(offers, s.offers[id])
	}
	return booking.ReconstructRequest(
		base.ID(), base.ShipperID(), base.Route(), base.Budget(), base.Notes(),
		base.ExpiresAt(), base.Status(), base.Version(), offers,
	)
}

type RequestStore struct {
	s *Store
}

func (r *RequestStore) Create(ctx context.Context, req *booking.Request) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.requests[req.ID()]; exists {
		return infra.WrapRepoErr("request already exists", nil, infra.KindDuplicateKey)
	}
	r.s.requests[req.ID()] = req
	r.s.requestOrder = append(r.s.requestOrder, req.ID())
	return nil
}

func (r *RequestStore) Get(ctx context.Context, id uuid.UUID) (*booking.Request, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, infra.WrapRepoErr("request not found", nil, infra.KindNotFound)
	}
	return r.s.loadedRequest(req), nil
}

func (r *RequestStore) GetMany(ctx context.Context, ids []uuid.UUID) ([]*booking.Request, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*booking.Request, 0, len(ids))
	for _, id := range ids {
		if req, ok := r.s.requests[id]; ok {
			result = append(result, r.s.loadedRequest(req))
		}
	}
	return result, nil
}

func (r *RequestStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.RequestStatus) (*booking.Request, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, infra.WrapRepoErr("request not found", nil, infra.KindNotFound)
	}
	if req.Version() != expectedVersion {
		return nil, infra.WrapRepoErr("request version mismatch", nil, infra.KindConflict)
	}
	updated := booking.ReconstructRequest(
		req.ID(), req.ShipperID(), req.Route(), req.Budget(), req.Notes(),
		req.ExpiresAt(), status, expectedVersion+1, nil,
	)
	r.s.requests[id] = updated
	return r.s.loadedRequest(updated), nil
}

func (r *RequestStore) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error) {
	return r.list(ctx, func(req *booking.Request) bool {
		return req.ShipperID() == shipperID
	})
}

func (r *RequestStore) ListIssuedByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error) {
	return r.list(ctx, func(req *booking.Request) bool {
		return req.ShipperID() == shipperID && req.IsIssued()
	})
}

func (r *RequestStore) ListIssued(ctx context.Context) ([]*booking.Request, error) {
	return r.list(ctx, func(req *booking.Request) bool {
		return req.IsIssued()
	})
}

func (r *RequestStore) ListIssuedExpiredBefore(ctx context.Context, cutoff time.Time) ([]*booking.Request, error) {
	return r.list(ctx, func(req *booking.Request) bool {
		return req.IsIssued() && !req.ExpiresAt().After(cutoff)
	})
}

func (r *RequestStore) list(ctx context.Context, match func(*booking.Request) bool) ([]*booking.Request, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*booking.Request
	for _, id := range r.s.requestOrder {
		if req := r.s.requests[id]; match(req) {
			result = append(result, r.s.loadedRequest(req))
		}
	}
	return result, nil
}

type OfferStore struct {
	s *Store
}

func (o *OfferStore) Create(ctx context.Context, offer booking.Offer) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if _, exists := o.s.offers[offer.ID()]; exists {
		return infra.WrapRepoErr("offer already exists", nil, infra.KindDuplicateKey)
	}
	o.s.offers[offer.ID()] = offer
	o.s.requestOffers[offer.RequestID()] = append(o.s.requestOffers[offer.RequestID()], offer.ID())
	return nil
}

func (o *OfferStore) Get(ctx context.Context, id uuid.UUID) (booking.Offer, error) {
	if err := ctxErr(ctx); err != nil {
		return booking.Offer{}, err
	}
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	offer, ok := o.s.offers[id]
	if !ok {
		return booking.Offer{}, infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	return offer, nil
}

func (o *OfferStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.OfferStatus) (booking.Offer, error) {
	if err := ctxErr(ctx); err != nil {
		return booking.Offer{}, err
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	offer, ok := o.s.offers[id]
	if !ok {
		return booking.Offer{}, infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	if offer.Version() != expectedVersion {
		return booking.Offer{}, infra.WrapRepoErr("offer version mismatch", nil, infra.KindConflict)
	}
	updated := booking.ReconstructOffer(
		offer.ID(), offer.CarrierID(), offer.RequestID(), offer.Budget(), status, expectedVersion+1,
	)
	o.s.offers[id] = updated
	return updated, nil
}

type ShipmentStore struct {
	s *Store
}

func (h *ShipmentStore) Create(ctx context.Context, shipment booking.Shipment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	if _, exists := h.s.shipments[shipment.ID()]; exists {
		return infra.WrapRepoErr("shipment already exists", nil, infra.KindDuplicateKey)
	}
	h.s.shipments[shipment.ID()] = shipment
	h.s.shipmentOrder = append(h.s.shipmentOrder, shipment.ID())
	return nil
}

func (h *ShipmentStore) Get(ctx context.Context, id uuid.UUID) (booking.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return booking.Shipment{}, err
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	shipment, ok := h.s.shipments[id]
	if !ok {
		return booking.Shipment{}, infra.WrapRepoErr("shipment not found", nil, infra.KindNotFound)
	}
	return shipment, nil
}

func (h *ShipmentStore) ListSubmitted(ctx context.Context) ([]booking.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	var result []booking.Shipment
	for _, id := range h.s.shipmentOrder {
		if sh := h.s.shipments[id]; sh.IsSubmitted() {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (h *ShipmentStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]booking.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	var result []booking.Shipment
	for _, id := range h.s.shipmentOrder {
		if sh := h.s.shipments[id]; sh.RequestID() == requestID {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (h *ShipmentStore) HasConfirmedForRequest(ctx context.Context, requestID uuid.UUID) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	for _, sh := range h.s.shipments {
		if sh.RequestID() == requestID && sh.Status() == booking.ShipmentConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (h *ShipmentStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.ShipmentStatus) (booking.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return booking.Shipment{}, err
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	shipment, ok := h.s.shipments[id]
	if !ok {
		return booking.Shipment{}, infra.WrapRepoErr("shipment not found", nil, infra.KindNotFound)
	}
	if shipment.Version() != expectedVersion {
		return booking.Shipment{}, infra.WrapRepoErr("shipment version mismatch", nil, infra.KindConflict)
	}
	updated := booking.ReconstructShipment(
		shipment.ID(), shipment.RequestID(), shipment.OfferID(), shipment.BookedAt(), status, expectedVersion+1,
	)
	h.s.shipments[id] = updated
	return updated, nil
}
