package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrExpiryNotInFuture = errors.New("expiry time has to be in the future")

// Request is a shipper's posted job. Immutable; status changes are
// expressed as compare-and-swap writes against storage, never by
// mutating a loaded value.
type Request struct {
	id        uuid.UUID
	shipperID uuid.UUID
	route     Route
	budget    Money
	notes     string
	expiresAt time.Time
	status    RequestStatus
	version   int64
	offers    []Offer
}

// NewRequest creates an Issued request. The version seed is supplied by
// the caller and incremented by storage on every status write.
func NewRequest(shipperID uuid.UUID, route Route, budget Money, expiresAt time.Time, notes string, now time.Time, version int64) (*Request, error) {
	if route.IsZero() {
		return nil, ErrIncompleteRoute
	}
	if !expiresAt.After(now) {
		return nil, ErrExpiryNotInFuture
	}
	return &Request{
		id:        uuid.New(),
		shipperID: shipperID,
		route:     route,
		budget:    budget,
		notes:     notes,
		expiresAt: expiresAt.UTC(),
		status:    RequestIssued,
		version:   version,
	}, nil
}

// ReconstructRequest rebuilds a stored request. The offers slice is a
// loaded convenience view; the offer store stays authoritative.
func ReconstructRequest(
	id, shipperID uuid.UUID,
	route Route,
	budget Money,
	notes string,
	expiresAt time.Time,
	status RequestStatus,
	version int64,
	offers []Offer,
) *Request {
	return &Request{
		id:        id,
		shipperID: shipperID,
		route:     route,
		budget:    budget,
		notes:     notes,
		expiresAt: expiresAt,
		status:    status,
		version:   version,
		offers:    offers,
	}
}

func (r *Request) ID() uuid.UUID         { return r.id }
func (r *Request) ShipperID() uuid.UUID  { return r.shipperID }
func (r *Request) Route() Route          { return r.route }
func (r *Request) Budget() Money         { return r.budget }
func (r *Request) Notes() string         { return r.notes }
func (r *Request) ExpiresAt() time.Time  { return r.expiresAt }
func (r *Request) Status() RequestStatus { return r.status }
func (r *Request) Version() int64        { return r.version }

// Offers returns the loaded offer view in creation order.
func (r *Request) Offers() []Offer {
	return r.offers
}

// FindOffer looks up a loaded offer by id.
func (r *Request) FindOffer(offerID uuid.UUID) (Offer, bool) {
	for _, o := range r.offers {
		if o.ID() == offerID {
			return o, true
		}
	}
	return Offer{}, false
}

func (r *Request) IsIssued() bool {
	return r.status == RequestIssued
}

func (r *Request) HasExpired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

func (r *Request) IsOwnedBy(shipperID uuid.UUID) bool {
	return r.shipperID == shipperID
}
