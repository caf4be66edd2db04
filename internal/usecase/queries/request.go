package queries

import (
	"context"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/domain/user"
	"delivery-market/internal/infra"
	"delivery-market/internal/pkg/errs"

	"github.com/google/uuid"
)

// RequestReader is the read-side storage port. Offer collections are
// loaded on every returned request.
type RequestReader interface {
	Get(ctx context.Context, id uuid.UUID) (*booking.Request, error)
	ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error)
	ListIssuedByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error)
	ListIssued(ctx context.Context) ([]*booking.Request, error)
}

type RequestQueries interface {
	GetRequest(ctx context.Context, id uuid.UUID) (*booking.Request, error)
	ListShipperRequests(ctx context.Context, shipper user.Shipper) ([]*booking.Request, error)
	ListShipperActiveRequests(ctx context.Context, shipper user.Shipper) ([]*booking.Request, error)
	// ListOpenRequests returns every request still open for bidding.
	ListOpenRequests(ctx context.Context) ([]*booking.Request, error)
}

type requestQueriesImpl struct {
	reader RequestReader
}

func NewRequestQueries(reader RequestReader) RequestQueries {
	return &requestQueriesImpl{reader: reader}
}

func (q *requestQueriesImpl) GetRequest(ctx context.Context, id uuid.UUID) (*booking.Request, error) {
	req, err := q.reader.Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNotFound)
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to fetch request"), errs.ErrUnexpected)
	}
	return req, nil
}

func (q *requestQueriesImpl) ListShipperRequests(ctx context.Context, shipper user.Shipper) ([]*booking.Request, error) {
	reqs, err := q.reader.ListByShipper(ctx, shipper.ID())
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list shipper requests"), errs.ErrUnexpected)
	}
	return reqs, nil
}

func (q *requestQueriesImpl) ListShipperActiveRequests(ctx context.Context, shipper user.Shipper) ([]*booking.Request, error) {
	reqs, err := q.reader.ListIssuedByShipper(ctx, shipper.ID())
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list active shipper requests"), errs.ErrUnexpected)
	}
	return reqs, nil
}

func (q *requestQueriesImpl) ListOpenRequests(ctx context.Context) ([]*booking.Request, error) {
	reqs, err := q.reader.ListIssued(ctx)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list open requests"), errs.ErrUnexpected)
	}
	return reqs, nil
}
