package pgstore

import (
	"context"
	"errors"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const offerColumns = `id, carrier_id, request_id, budget_cents, status, version`

type OfferStore struct {
	pool *pgxpool.Pool
}

func scanOffer(row pgx.Row) (booking.Offer, error) {
	var (
		id, carrierID, requestID uuid.UUID
		budgetCents, version     int64
		status                   string
	)
	if err := row.Scan(&id, &carrierID, &requestID, &budgetCents, &status, &version); err != nil {
		return booking.Offer{}, err
	}
	return booking.ReconstructOffer(
		id, carrierID, requestID, booking.ReconstructMoney(budgetCents), booking.OfferStatus(status), version,
	), nil
}

func (s *OfferStore) Create(ctx context.Context, offer booking.Offer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shipment_offers (id, carrier_id, request_id, budget_cents, status, version)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		offer.ID(), offer.CarrierID(), offer.RequestID(), offer.Budget().Cents(), offer.Status().String(), offer.Version(),
	)
	if err != nil {
		return wrapCreateErr("failed to create offer", err)
	}
	return nil
}

func (s *OfferStore) Get(ctx context.Context, id uuid.UUID) (booking.Offer, error) {
	offer, err := scanOffer(s.pool.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM shipment_offers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Offer{}, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return booking.Offer{}, infra.WrapRepoErr("failed to get offer", err)
	}
	return offer, nil
}

func (s *OfferStore) SetStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status booking.OfferStatus) (booking.Offer, error) {
	offer, err := scanOffer(s.pool.QueryRow(ctx, `
		UPDATE shipment_offers
		SET status = $2, version = version + 1
		WHERE id = $1 AND version = $3
		RETURNING `+offerColumns,
		id, status.String(), expectedVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Offer{}, s.casMiss(ctx, id)
		}
		return booking.Offer{}, infra.WrapRepoErr("failed to set offer status", err)
	}
	return offer, nil
}

func (s *OfferStore) casMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipment_offers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr("failed to set offer status", err)
	}
	if !exists {
		return infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("offer version mismatch", nil, infra.KindConflict)
}

// loadOffers fetches the offer collections for a set of requests in
// creation order, keyed by request id.
func loadOffers(ctx context.Context, pool *pgxpool.Pool, requestIDs []uuid.UUID) (map[uuid.UUID][]booking.Offer, error) {
	result := make(map[uuid.UUID][]booking.Offer, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	rows, err := pool.Query(ctx,
		`SELECT `+offerColumns+` FROM shipment_offers WHERE request_id = ANY($1) ORDER BY created_at`,
		requestIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load offers", err)
	}
	defer rows.Close()

	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan offer", err)
		}
		result[offer.RequestID()] = append(result[offer.RequestID()], offer)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read offers", err)
	}
	return result, nil
}
