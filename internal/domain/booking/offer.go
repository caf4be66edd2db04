package booking

import (
	"github.com/google/uuid"
)

// Offer is a carrier's bid against a request. Value semantics: offers
// travel inside a loaded Request and are small enough to copy.
type Offer struct {
	id        uuid.UUID
	carrierID uuid.UUID
	requestID uuid.UUID
	budget    Money
	status    OfferStatus
	version   int64
}

func NewOffer(carrierID, requestID uuid.UUID, budget Money, version int64) Offer {
	return Offer{
		id:        uuid.New(),
		carrierID: carrierID,
		requestID: requestID,
		budget:    budget,
		status:    OfferIssued,
		version:   version,
	}
}

func ReconstructOffer(id, carrierID, requestID uuid.UUID, budget Money, status OfferStatus, version int64) Offer {
	return Offer{
		id:        id,
		carrierID: carrierID,
		requestID: requestID,
		budget:    budget,
		status:    status,
		version:   version,
	}
}

func (o Offer) ID() uuid.UUID        { return o.id }
func (o Offer) CarrierID() uuid.UUID { return o.carrierID }
func (o Offer) RequestID() uuid.UUID { return o.requestID }
func (o Offer) Budget() Money        { return o.budget }
func (o Offer) Status() OfferStatus  { return o.status }
func (o Offer) Version() int64       { return o.version }

func (o Offer) IsIssued() bool {
	return o.status == OfferIssued
}
