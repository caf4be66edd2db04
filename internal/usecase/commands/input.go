package commands

import (
	"time"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/pkg/errs"
)

type RoutePointInput struct {
	City    string
	State   string
	ZipCode string
	Address string
}

type CreateRequestInput struct {
	Pickup      RoutePointInput
	Destination RoutePointInput
	BudgetCents int64
	ExpiresAt   time.Time
	Notes       string
}

func (in CreateRequestInput) route() (booking.Route, error) {
	pickup, err := booking.NewRoutePoint(in.Pickup.City, in.Pickup.State, in.Pickup.ZipCode, in.Pickup.Address)
	if err != nil {
		return booking.Route{}, errs.Mark(errs.Wrap(err, "invalid pickup"), errs.ErrInvalidInput)
	}
	destination, err := booking.NewRoutePoint(in.Destination.City, in.Destination.State, in.Destination.ZipCode, in.Destination.Address)
	if err != nil {
		return booking.Route{}, errs.Mark(errs.Wrap(err, "invalid destination"), errs.ErrInvalidInput)
	}
	route, err := booking.NewRoute(pickup, destination)
	if err != nil {
		return booking.Route{}, errs.Mark(err, errs.ErrInvalidInput)
	}
	return route, nil
}
