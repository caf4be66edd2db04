//go:build unit

package booking_test

import (
	"testing"
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.RequestBuilder)
	errIs  error
}

func TestRequest(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewRequestBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, b.ShipperID, actual.ShipperID())
		assert.Equal(t, booking.RequestIssued, actual.Status())
		assert.Equal(t, int64(0), actual.Version())
		assert.Equal(t, "Austin", actual.Route().Pickup().City())
		assert.Equal(t, "Dallas", actual.Route().Destination().City())
		assert.Equal(t, int64(125_00), actual.Budget().Cents())
		assert.Equal(t, b.ExpiresAt.UTC(), actual.ExpiresAt())
		assert.Empty(t, actual.Offers())
	})

	t.Run("route validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "pickup missing city",
				mutate: func(b *builder.RequestBuilder) { b.Pickup.City = "" },
				errIs:  booking.ErrIncompleteRoutePoint,
			},
			{
				name:   "pickup whitespace address",
				mutate: func(b *builder.RequestBuilder) { b.Pickup.Address = "   " },
				errIs:  booking.ErrIncompleteRoutePoint,
			},
			{
				name:   "destination missing zip code",
				mutate: func(b *builder.RequestBuilder) { b.Destination.ZipCode = "" },
				errIs:  booking.ErrIncompleteRoutePoint,
			},
			{
				name:   "complete route",
				mutate: func(b *builder.RequestBuilder) {},
			},
		})
	})

	t.Run("budget validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero budget",
				mutate: func(b *builder.RequestBuilder) { b.BudgetCents = 0 },
				errIs:  booking.ErrNonPositiveBudget,
			},
			{
				name:   "negative budget",
				mutate: func(b *builder.RequestBuilder) { b.BudgetCents = -500 },
				errIs:  booking.ErrNonPositiveBudget,
			},
			{
				name:   "one cent budget",
				mutate: func(b *builder.RequestBuilder) { b.BudgetCents = 1 },
			},
		})
	})

	t.Run("expiry validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "expiry in the past",
				mutate: func(b *builder.RequestBuilder) { b.ExpiresAt = b.Now.Add(-time.Hour) },
				errIs:  booking.ErrExpiryNotInFuture,
			},
			{
				name:   "expiry equal to now",
				mutate: func(b *builder.RequestBuilder) { b.ExpiresAt = b.Now },
				errIs:  booking.ErrExpiryNotInFuture,
			},
			{
				name:   "expiry one second ahead",
				mutate: func(b *builder.RequestBuilder) { b.ExpiresAt = b.Now.Add(time.Second) },
			},
		})
	})

	t.Run("UUID uniqueness", func(t *testing.T) {
		req1, err1 := builder.NewRequestBuilder().BuildDomain()
		req2, err2 := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err1)
		require.NoError(t, err2)

		assert.NotEqual(t, req1.ID(), req2.ID())
	})

	t.Run("expiry check", func(t *testing.T) {
		b := builder.NewRequestBuilder()
		req, err := b.BuildDomain()
		require.NoError(t, err)

		assert.False(t, req.HasExpired(b.Now))
		assert.True(t, req.HasExpired(b.ExpiresAt))
		assert.True(t, req.HasExpired(b.ExpiresAt.Add(time.Minute)))
	})

	t.Run("ownership check", func(t *testing.T) {
		b := builder.NewRequestBuilder()
		req, err := b.BuildDomain()
		require.NoError(t, err)

		assert.True(t, req.IsOwnedBy(b.ShipperID))
		assert.False(t, req.IsOwnedBy(uuid.New()))
	})

	t.Run("offer lookup on reconstructed request", func(t *testing.T) {
		requestID := uuid.New()
		offer := booking.ReconstructOffer(uuid.New(), uuid.New(), requestID, booking.ReconstructMoney(100_00), booking.OfferIssued, 0)

		req := booking.ReconstructRequest(
			requestID, uuid.New(),
			booking.ReconstructRoute(
				booking.ReconstructRoutePoint("Austin", "TX", "73301", "501 Congress Ave"),
				booking.ReconstructRoutePoint("Dallas", "TX", "75201", "1401 Elm St"),
			),
			booking.ReconstructMoney(125_00),
			"", time.Now().Add(time.Hour), booking.RequestIssued, 3,
			[]booking.Offer{offer},
		)

		found, ok := req.FindOffer(offer.ID())
		require.True(t, ok)
		assert.Equal(t, offer.ID(), found.ID())

		_, ok = req.FindOffer(uuid.New())
		assert.False(t, ok)
	})
}

func TestStatusClassification(t *testing.T) {
	t.Run("request statuses", func(t *testing.T) {
		assert.False(t, booking.RequestIssued.IsTerminal())
		assert.True(t, booking.RequestBooked.IsTerminal())
		assert.True(t, booking.RequestCanceled.IsTerminal())
		assert.True(t, booking.RequestExpired.IsTerminal())
		assert.False(t, booking.RequestStatus("bogus").IsTerminal())
		assert.False(t, booking.RequestStatus("bogus").IsValid())
	})

	t.Run("shipment statuses", func(t *testing.T) {
		assert.False(t, booking.ShipmentSubmitted.IsTerminal())
		assert.True(t, booking.ShipmentConfirmed.IsTerminal())
		assert.True(t, booking.ShipmentReverted.IsTerminal())
		assert.True(t, booking.ShipmentAborted.IsTerminal())
		assert.False(t, booking.ShipmentStatus("bogus").IsTerminal())
	})

	t.Run("offer statuses", func(t *testing.T) {
		assert.True(t, booking.OfferIssued.IsValid())
		assert.True(t, booking.OfferReplaced.IsValid())
		assert.False(t, booking.OfferStatus("bogus").IsValid())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewRequestBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
