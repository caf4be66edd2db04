//go:build unit || integration

package builder

import (
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/usecase/commands"

	"github.com/google/uuid"
)

type RequestBuilder struct {
	ShipperID   uuid.UUID
	Pickup      commands.RoutePointInput
	Destination commands.RoutePointInput
	BudgetCents int64
	Notes       string
	Now         time.Time
	ExpiresAt   time.Time
}

func NewRequestBuilder() *RequestBuilder {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &RequestBuilder{
		ShipperID: uuid.New(),
		Pickup: commands.RoutePointInput{
			City:    "Austin",
			State:   "TX",
			ZipCode: "73301",
			Address: "501 Congress Ave",
		},
		Destination: commands.RoutePointInput{
			City:    "Dallas",
			State:   "TX",
			ZipCode: "75201",
			Address: "1401 Elm St",
		},
		BudgetCents: 125_00,
		Notes:       "Fragile, keep upright",
		Now:         now,
		ExpiresAt:   now.Add(48 * time.Hour),
	}
}

func (b *RequestBuilder) With(mutate func(*RequestBuilder)) *RequestBuilder {
	mutate(b)
	return b
}

func (b *RequestBuilder) BuildInput() commands.CreateRequestInput {
	return commands.CreateRequestInput{
		Pickup:      b.Pickup,
		Destination: b.Destination,
		BudgetCents: b.BudgetCents,
		ExpiresAt:   b.ExpiresAt,
		Notes:       b.Notes,
	}
}

func (b *RequestBuilder) BuildDomain() (*booking.Request, error) {
	pickup, err := booking.NewRoutePoint(b.Pickup.City, b.Pickup.State, b.Pickup.ZipCode, b.Pickup.Address)
	if err != nil {
		return nil, err
	}
	destination, err := booking.NewRoutePoint(b.Destination.City, b.Destination.State, b.Destination.ZipCode, b.Destination.Address)
	if err != nil {
		return nil, err
	}
	route, err := booking.NewRoute(pickup, destination)
	if err != nil {
		return nil, err
	}
	budget, err := booking.NewMoney(b.BudgetCents)
	if err != nil {
		return nil, err
	}
	return booking.NewRequest(b.ShipperID, route, budget, b.ExpiresAt, b.Notes, b.Now, 0)
}

// Fluent builder methods
func (b *RequestBuilder) WithShipperID(id uuid.UUID) *RequestBuilder {
	b.ShipperID = id
	return b
}

func (b *RequestBuilder) WithBudgetCents(cents int64) *RequestBuilder {
	b.BudgetCents = cents
	return b
}

func (b *RequestBuilder) WithNotes(notes string) *RequestBuilder {
	b.Notes = notes
	return b
}

func (b *RequestBuilder) WithExpiresAt(t time.Time) *RequestBuilder {
	b.ExpiresAt = t
	return b
}

func (b *RequestBuilder) WithPickup(p commands.RoutePointInput) *RequestBuilder {
	b.Pickup = p
	return b
}

func (b *RequestBuilder) WithDestination(p commands.RoutePointInput) *RequestBuilder {
	b.Destination = p
	return b
}
