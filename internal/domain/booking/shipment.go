package booking

import (
	"time"

	"github.com/google/uuid"
)

// Shipment is the provisional-then-final booking record linking one
// request to one offer. Created once in Submitted, moved at most once
// more to Confirmed, Reverted or Aborted; never deleted or re-opened.
type Shipment struct {
	id        uuid.UUID
	requestID uuid.UUID
	offerID   uuid.UUID
	bookedAt  time.Time
	status    ShipmentStatus
	version   int64
}

func NewShipment(requestID, offerID uuid.UUID, bookedAt time.Time, version int64) Shipment {
	return Shipment{
		id:        uuid.New(),
		requestID: requestID,
		offerID:   offerID,
		bookedAt:  bookedAt.UTC(),
		status:    ShipmentSubmitted,
		version:   version,
	}
}

func ReconstructShipment(id, requestID, offerID uuid.UUID, bookedAt time.Time, status ShipmentStatus, version int64) Shipment {
	return Shipment{
		id:        id,
		requestID: requestID,
		offerID:   offerID,
		bookedAt:  bookedAt,
		status:    status,
		version:   version,
	}
}

func (s Shipment) ID() uuid.UUID          { return s.id }
func (s Shipment) RequestID() uuid.UUID   { return s.requestID }
func (s Shipment) OfferID() uuid.UUID     { return s.offerID }
func (s Shipment) BookedAt() time.Time    { return s.bookedAt }
func (s Shipment) Status() ShipmentStatus { return s.status }
func (s Shipment) Version() int64         { return s.version }

func (s Shipment) IsSubmitted() bool {
	return s.status == ShipmentSubmitted
}

// BookedBefore is the total order used to pick a reconciliation winner:
// earliest booked-at first, shipment id string as the deterministic
// tie-break so concurrent sweepers agree on the same winner.
func (s Shipment) BookedBefore(other Shipment) bool {
	if s.bookedAt.Equal(other.bookedAt) {
		return s.id.String() < other.id.String()
	}
	return s.bookedAt.Before(other.bookedAt)
}
