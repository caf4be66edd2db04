package booking

import (
	"errors"
	"strings"
)

var (
	ErrIncompleteRoutePoint = errors.New("route point requires city, state, zip code and address")
	ErrIncompleteRoute      = errors.New("route requires both pickup and destination")
	ErrNonPositiveBudget    = errors.New("budget must be larger than zero")
)

// RoutePoint is a US address. Validation is presence-only; richer
// address formats are out of scope for now.
type RoutePoint struct {
	city    string
	state   string
	zipCode string
	address string
}

func NewRoutePoint(city, state, zipCode, address string) (RoutePoint, error) {
	p := RoutePoint{
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		address: strings.TrimSpace(address),
	}
	if p.city == "" || p.state == "" || p.zipCode == "" || p.address == "" {
		return RoutePoint{}, ErrIncompleteRoutePoint
	}
	return p, nil
}

// ReconstructRoutePoint rebuilds a stored point without presence
// checks; persisted records are trusted.
func ReconstructRoutePoint(city, state, zipCode, address string) RoutePoint {
	return RoutePoint{city: city, state: state, zipCode: zipCode, address: address}
}

func (p RoutePoint) City() string    { return p.city }
func (p RoutePoint) State() string   { return p.state }
func (p RoutePoint) ZipCode() string { return p.zipCode }
func (p RoutePoint) Address() string { return p.address }

func (p RoutePoint) IsZero() bool {
	return p == RoutePoint{}
}

type Route struct {
	pickup      RoutePoint
	destination RoutePoint
}

func NewRoute(pickup, destination RoutePoint) (Route, error) {
	if pickup.IsZero() || destination.IsZero() {
		return Route{}, ErrIncompleteRoute
	}
	return Route{pickup: pickup, destination: destination}, nil
}

func ReconstructRoute(pickup, destination RoutePoint) Route {
	return Route{pickup: pickup, destination: destination}
}

func (r Route) Pickup() RoutePoint      { return r.pickup }
func (r Route) Destination() RoutePoint { return r.destination }

func (r Route) IsZero() bool {
	return r.pickup.IsZero() && r.destination.IsZero()
}

// Money is a USD amount in cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents <= 0 {
		return Money{}, ErrNonPositiveBudget
	}
	return Money{cents: cents}, nil
}

// ReconstructMoney rebuilds a stored amount without the positivity
// check; persisted records are trusted.
func ReconstructMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}
