package commands

import (
	"context"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/infra"
	"delivery-market/internal/pkg/errs"

	"github.com/google/uuid"
)

// Version seed for freshly created entities; storage increments it on
// every successful status write.
const initialVersion int64 = 0

type RequestRepository interface {
	// Get loads a request with its offer collection.
	Get(ctx context.Context, id uuid.UUID) (*booking.Request, error)
	Create(ctx context.Context, req *booking.Request) error
	// SetStatus applies only when the stored version equals
	// expectedVersion and increments it on success.
	SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.RequestStatus) (*booking.Request, error)
}

type OfferRepository interface {
	Get(ctx context.Context, id uuid.UUID) (booking.Offer, error)
	Create(ctx context.Context, offer booking.Offer) error
	SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.OfferStatus) (booking.Offer, error)
}

type ShipmentRepository interface {
	Create(ctx context.Context, shipment booking.Shipment) error
}

// markRepoErr translates repository error kinds into the usecase error
// vocabulary, keeping the low-level cause in the chain.
func markRepoErr(err error, msg string) error {
	wrapped := errs.Wrap(err, msg)
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(wrapped, errs.ErrNotFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(wrapped, errs.ErrConflict)
	default:
		return errs.Mark(wrapped, errs.ErrUnexpected)
	}
}
