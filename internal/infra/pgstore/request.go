package pgstore

import (
	"context"
	"errors"
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, shipper_id,
	pickup_city, pickup_state, pickup_zip, pickup_address,
	dest_city, dest_state, dest_zip, dest_address,
	budget_cents, notes, expires_at, status, version`

type RequestStore struct {
	pool *pgxpool.Pool
}

type requestRow struct {
	ID            uuid.UUID
	ShipperID     uuid.UUID
	PickupCity    string
	PickupState   string
	PickupZip     string
	PickupAddress string
	DestCity      string
	DestState     string
	DestZip       string
	DestAddress   string
	BudgetCents   int64
	Notes         string
	ExpiresAt     time.Time
	Status        string
	Version       int64
}

func scanRequestRow(row pgx.Row) (requestRow, error) {
	var r requestRow
	err := row.Scan(
		&r.ID, &r.ShipperID,
		&r.PickupCity, &r.PickupState, &r.PickupZip, &r.PickupAddress,
		&r.DestCity, &r.DestState, &r.DestZip, &r.DestAddress,
		&r.BudgetCents, &r.Notes, &r.ExpiresAt, &r.Status, &r.Version,
	)
	return r, err
}

func (r requestRow) toDomain(offers []booking.Offer) *booking.Request {
	route := booking.ReconstructRoute(
		booking.ReconstructRoutePoint(r.PickupCity, r.PickupState, r.PickupZip, r.PickupAddress),
		booking.ReconstructRoutePoint(r.DestCity, r.DestState, r.DestZip, r.DestAddress),
	)
	return booking.ReconstructRequest(
		r.ID, r.ShipperID, route, booking.ReconstructMoney(r.BudgetCents), r.Notes,
		r.ExpiresAt, booking.RequestStatus(r.Status), r.Version, offers,
	)
}

func (s *RequestStore) Create(ctx context.Context, req *booking.Request) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shipment_requests (
			id, shipper_id,
			pickup_city, pickup_state, pickup_zip, pickup_address,
			dest_city, dest_state, dest_zip, dest_address,
			budget_cents, notes, expires_at, status, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		req.ID(), req.ShipperID(),
		req.Route().Pickup().City(), req.Route().Pickup().State(), req.Route().Pickup().ZipCode(), req.Route().Pickup().Address(),
		req.Route().Destination().City(), req.Route().Destination().State(), req.Route().Destination().ZipCode(), req.Route().Destination().Address(),
		req.Budget().Cents(), req.Notes(), req.ExpiresAt(), req.Status().String(), req.Version(),
	)
	if err != nil {
		return wrapCreateErr("failed to create request", err)
	}
	return nil
}

func (s *RequestStore) Get(ctx context.Context, id uuid.UUID) (*booking.Request, error) {
	row, err := scanRequestRow(s.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get request", err)
	}

	offers, err := loadOffers(ctx, s.pool, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return row.toDomain(offers[id]), nil
}

func (s *RequestStore) GetMany(ctx context.Context, ids []uuid.UUID) ([]*booking.Request, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get requests", err)
	}
	loaded, err := collectRequestRows(rows)
	if err != nil {
		return nil, err
	}

	found := make([]uuid.UUID, 0, len(loaded))
	for _, r := range loaded {
		found = append(found, r.ID)
	}
	offers, err := loadOffers(ctx, s.pool, found)
	if err != nil {
		return nil, err
	}

	result := make([]*booking.Request, 0, len(loaded))
	for _, r := range loaded {
		result = append(result, r.toDomain(offers[r.ID]))
	}
	return result, nil
}

func (s *RequestStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.RequestStatus) (*booking.Request, error) {
	row, err := scanRequestRow(s.pool.QueryRow(ctx, `
		UPDATE shipment_requests
		SET status = $2, version = version + 1
		WHERE id = $1 AND version = $3
		RETURNING `+requestColumns,
		id, status.String(), expectedVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.casMiss(ctx, id)
		}
		return nil, infra.WrapRepoErr("failed to set request status", err)
	}

	offers, err := loadOffers(ctx, s.pool, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return row.toDomain(offers[id]), nil
}

// casMiss tells a vanished row apart from a lost version race.
func (s *RequestStore) casMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipment_requests WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr("failed to set request status", err)
	}
	if !exists {
		return infra.WrapRepoErr("request not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("request version mismatch", nil, infra.KindConflict)
}

func (s *RequestStore) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error) {
	return s.list(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE shipper_id = $1 ORDER BY created_at`,
		shipperID)
}

func (s *RequestStore) ListIssuedByShipper(ctx context.Context, shipperID uuid.UUID) ([]*booking.Request, error) {
	return s.list(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE shipper_id = $1 AND status = $2 ORDER BY created_at`,
		shipperID, booking.RequestIssued.String())
}

func (s *RequestStore) ListIssued(ctx context.Context) ([]*booking.Request, error) {
	return s.list(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE status = $1 ORDER BY created_at`,
		booking.RequestIssued.String())
}

func (s *RequestStore) ListIssuedExpiredBefore(ctx context.Context, cutoff time.Time) ([]*booking.Request, error) {
	return s.list(ctx,
		`SELECT `+requestColumns+` FROM shipment_requests WHERE status = $1 AND expires_at <= $2 ORDER BY created_at`,
		booking.RequestIssued.String(), cutoff)
}

func (s *RequestStore) list(ctx context.Context, query string, args ...any) ([]*booking.Request, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list requests", err)
	}
	loaded, err := collectRequestRows(rows)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(loaded))
	for _, r := range loaded {
		ids = append(ids, r.ID)
	}
	offers, err := loadOffers(ctx, s.pool, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*booking.Request, 0, len(loaded))
	for _, r := range loaded {
		result = append(result, r.toDomain(offers[r.ID]))
	}
	return result, nil
}

func collectRequestRows(rows pgx.Rows) ([]requestRow, error) {
	defer rows.Close()

	var result []requestRow
	for rows.Next() {
		r, err := scanRequestRow(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan request", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read requests", err)
	}
	return result, nil
}
