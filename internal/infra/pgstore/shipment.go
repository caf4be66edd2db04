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

const shipmentColumns = `id, request_id, offer_id, booked_at, status, version`

type ShipmentStore struct {
	pool *pgxpool.Pool
}

func scanShipment(row pgx.Row) (booking.Shipment, error) {
	var (
		id, requestID, offerID uuid.UUID
		bookedAt               time.Time
		status                 string
		version                int64
	)
	if err := row.Scan(&id, &requestID, &offerID, &bookedAt, &status, &version); err != nil {
		return booking.Shipment{}, err
	}
	return booking.ReconstructShipment(
		id, requestID, offerID, bookedAt, booking.ShipmentStatus(status), version,
	), nil
}

func (s *ShipmentStore) Create(ctx context.Context, shipment booking.Shipment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shipments (id, request_id, offer_id, booked_at, status, version)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		shipment.ID(), shipment.RequestID(), shipment.OfferID(), shipment.BookedAt(), shipment.Status().String(), shipment.Version(),
	)
	if err != nil {
		return wrapCreateErr("failed to create shipment", err)
	}
	return nil
}

func (s *ShipmentStore) Get(ctx context.Context, id uuid.UUID) (booking.Shipment, error) {
	shipment, err := scanShipment(s.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Shipment{}, infra.WrapRepoErr("shipment not found", err, infra.KindNotFound)
		}
		return booking.Shipment{}, infra.WrapRepoErr("failed to get shipment", err)
	}
	return shipment, nil
}

func (s *ShipmentStore) ListSubmitted(ctx context.Context) ([]booking.Shipment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE status = $1 ORDER BY booked_at`,
		booking.ShipmentSubmitted.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list submitted shipments", err)
	}
	return collectShipments(rows)
}

func (s *ShipmentStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]booking.Shipment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE request_id = $1 ORDER BY booked_at`,
		requestID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list request shipments", err)
	}
	return collectShipments(rows)
}

func (s *ShipmentStore) HasConfirmedForRequest(ctx context.Context, requestID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipments WHERE request_id = $1 AND status = $2)`,
		requestID, booking.ShipmentConfirmed.String()).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check confirmed shipment", err)
	}
	return exists, nil
}

func (s *ShipmentStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.ShipmentStatus) (booking.Shipment, error) {
	shipment, err := scanShipment(s.pool.QueryRow(ctx, `
		UPDATE shipments
		SET status = $2, version = version + 1
		WHERE id = $1 AND version = $3
		RETURNING `+shipmentColumns,
		id, status.String(), expectedVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Shipment{}, s.casMiss(ctx, id)
		}
		return booking.Shipment{}, infra.WrapRepoErr("failed to set shipment status", err)
	}
	return shipment, nil
}

func (s *ShipmentStore) casMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr("failed to set shipment status", err)
	}
	if !exists {
		return infra.WrapRepoErr("shipment not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("shipment version mismatch", nil, infra.KindConflict)
}

func collectShipments(rows pgx.Rows) ([]booking.Shipment, error) {
	defer rows.Close()

	var result []booking.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan shipment", err)
		}
		result = append(result, shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read shipments", err)
	}
	return result, nil
}
