// Package pgstore is the postgres implementation of the booking
// repositories. Every status write is an atomic compare-and-swap on
// (id, version); a missed swap reports CONFLICT and changes nothing.
package pgstore

import (
	"context"
	_ "embed"
	"errors"

	"delivery-market/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const pgErrCodeUniqueViolation = "23505"

// wrapCreateErr classifies an insert failure, telling duplicate keys
// apart from plain database failures.
func wrapCreateErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	}
	return infra.WrapRepoErr(msg, err)
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Requests() *RequestStore   { return &RequestStore{pool: s.pool} }
func (s *Store) Offers() *OfferStore       { return &OfferStore{pool: s.pool} }
func (s *Store) Shipments() *ShipmentStore { return &ShipmentStore{pool: s.pool} }

// Migrate applies the schema. Statements are idempotent, so calling it
// on every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return infra.WrapRepoErr("failed to apply schema", err)
	}
	return nil
}
