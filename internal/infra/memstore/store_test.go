//go:build unit

package memstore_test

import (
	"context"
	"testing"
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/infra"
	"delivery-market/internal/infra/memstore"
	"delivery-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T) *booking.Request {
	t.Helper()
	req, err := builder.NewRequestBuilder().BuildDomain()
	require.NoError(t, err)
	return req
}

func TestRequestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns not found kind for unknown id", func(t *testing.T) {
		store := memstore.NewStore()

		_, err := store.Requests().Get(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("duplicate create reports duplicate key", func(t *testing.T) {
		store := memstore.NewStore()
		req := mustRequest(t)

		require.NoError(t, store.Requests().Create(ctx, req))
		err := store.Requests().Create(ctx, req)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("set status increments version", func(t *testing.T) {
		store := memstore.NewStore()
		req := mustRequest(t)
		require.NoError(t, store.Requests().Create(ctx, req))

		updated, err := store.Requests().SetStatus(ctx, req.ID(), req.Version(), booking.RequestBooked)
		require.NoError(t, err)
		assert.Equal(t, booking.RequestBooked, updated.Status())
		assert.Equal(t, req.Version()+1, updated.Version())
	})

	t.Run("stale version conflicts and changes nothing", func(t *testing.T) {
		store := memstore.NewStore()
		req := mustRequest(t)
		require.NoError(t, store.Requests().Create(ctx, req))

		_, err := store.Requests().SetStatus(ctx, req.ID(), req.Version()+1, booking.RequestBooked)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))

		got, err := store.Requests().Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.RequestIssued, got.Status())
		assert.Equal(t, req.Version(), got.Version())
	})

	t.Run("get attaches offers in creation order", func(t *testing.T) {
		store := memstore.NewStore()
		req := mustRequest(t)
		require.NoError(t, store.Requests().Create(ctx, req))

		first := booking.NewOffer(uuid.New(), req.ID(), booking.ReconstructMoney(100_00), 0)
		second := booking.NewOffer(uuid.New(), req.ID(), booking.ReconstructMoney(110_00), 0)
		require.NoError(t, store.Offers().Create(ctx, first))
		require.NoError(t, store.Offers().Create(ctx, second))

		got, err := store.Requests().Get(ctx, req.ID())
		require.NoError(t, err)
		require.Len(t, got.Offers(), 2)
		assert.Equal(t, first.ID(), got.Offers()[0].ID())
		assert.Equal(t, second.ID(), got.Offers()[1].ID())
	})

	t.Run("issued listings exclude closed requests", func(t *testing.T) {
		store := memstore.NewStore()
		shipperID := uuid.New()

		open, err := builder.NewRequestBuilder().WithShipperID(shipperID).BuildDomain()
		require.NoError(t, err)
		closed, err := builder.NewRequestBuilder().WithShipperID(shipperID).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, store.Requests().Create(ctx, open))
		require.NoError(t, store.Requests().Create(ctx, closed))
		_, err = store.Requests().SetStatus(ctx, closed.ID(), closed.Version(), booking.RequestCanceled)
		require.NoError(t, err)

		all, err := store.Requests().ListByShipper(ctx, shipperID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		issued, err := store.Requests().ListIssuedByShipper(ctx, shipperID)
		require.NoError(t, err)
		require.Len(t, issued, 1)
		assert.Equal(t, open.ID(), issued[0].ID())
	})

	t.Run("expired listing honors the cutoff", func(t *testing.T) {
		store := memstore.NewStore()
		b := builder.NewRequestBuilder()
		req, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, store.Requests().Create(ctx, req))

		before, err := store.Requests().ListIssuedExpiredBefore(ctx, b.ExpiresAt.Add(-time.Minute))
		require.NoError(t, err)
		assert.Empty(t, before)

		after, err := store.Requests().ListIssuedExpiredBefore(ctx, b.ExpiresAt)
		require.NoError(t, err)
		assert.Len(t, after, 1)
	})
}

func TestShipmentStore(t *testing.T) {
	ctx := context.Background()
	bookedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("list submitted skips settled shipments", func(t *testing.T) {
		store := memstore.NewStore()
		requestID := uuid.New()

		open := booking.NewShipment(requestID, uuid.New(), bookedAt, 0)
		settled := booking.NewShipment(requestID, uuid.New(), bookedAt, 0)
		require.NoError(t, store.Shipments().Create(ctx, open))
		require.NoError(t, store.Shipments().Create(ctx, settled))

		_, err := store.Shipments().SetStatus(ctx, settled.ID(), settled.Version(), booking.ShipmentReverted)
		require.NoError(t, err)

		submitted, err := store.Shipments().ListSubmitted(ctx)
		require.NoError(t, err)
		require.Len(t, submitted, 1)
		assert.Equal(t, open.ID(), submitted[0].ID())
	})

	t.Run("has confirmed for request", func(t *testing.T) {
		store := memstore.NewStore()
		requestID := uuid.New()
		shipment := booking.NewShipment(requestID, uuid.New(), bookedAt, 0)
		require.NoError(t, store.Shipments().Create(ctx, shipment))

		confirmed, err := store.Shipments().HasConfirmedForRequest(ctx, requestID)
		require.NoError(t, err)
		assert.False(t, confirmed)

		_, err = store.Shipments().SetStatus(ctx, shipment.ID(), shipment.Version(), booking.ShipmentConfirmed)
		require.NoError(t, err)

		confirmed, err = store.Shipments().HasConfirmedForRequest(ctx, requestID)
		require.NoError(t, err)
		assert.True(t, confirmed)
	})

	t.Run("stale shipment write conflicts", func(t *testing.T) {
		store := memstore.NewStore()
		shipment := booking.NewShipment(uuid.New(), uuid.New(), bookedAt, 0)
		require.NoError(t, store.Shipments().Create(ctx, shipment))

		_, err := store.Shipments().SetStatus(ctx, shipment.ID(), shipment.Version(), booking.ShipmentConfirmed)
		require.NoError(t, err)

		_, err = store.Shipments().SetStatus(ctx, shipment.ID(), shipment.Version(), booking.ShipmentReverted)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})
}

func TestOfferStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set status round-trips through get", func(t *testing.T) {
		store := memstore.NewStore()
		offer := booking.NewOffer(uuid.New(), uuid.New(), booking.ReconstructMoney(100_00), 0)
		require.NoError(t, store.Offers().Create(ctx, offer))

		updated, err := store.Offers().SetStatus(ctx, offer.ID(), offer.Version(), booking.OfferAccepted)
		require.NoError(t, err)
		assert.Equal(t, booking.OfferAccepted, updated.Status())

		got, err := store.Offers().Get(ctx, offer.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.OfferAccepted, got.Status())
		assert.Equal(t, offer.Version()+1, got.Version())
	})

	t.Run("missing offer reports not found", func(t *testing.T) {
		store := memstore.NewStore()

		_, err := store.Offers().SetStatus(ctx, uuid.New(), 0, booking.OfferRejected)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
