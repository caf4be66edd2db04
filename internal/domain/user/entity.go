package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

// Identity is the shared part of every market participant. Account
// management itself lives outside this service; bookings only need a
// stable id plus a role discriminator.
type Identity struct {
	id    uuid.UUID
	name  string
	email string
}

func NewIdentity(id uuid.UUID, name, email string) Identity {
	return Identity{id: id, name: name, email: email}
}

func (i Identity) ID() uuid.UUID { return i.id }
func (i Identity) Name() string  { return i.name }
func (i Identity) Email() string { return i.email }

// Shipper posts shipment requests and accepts or rejects offers.
type Shipper struct {
	Identity
}

func NewShipper(id uuid.UUID, name, email string) Shipper {
	return Shipper{Identity: NewIdentity(id, name, email)}
}

func (s Shipper) Role() Role { return RoleShipper }

// Carrier bids on requests and may book them directly.
type Carrier struct {
	Identity
}

func NewCarrier(id uuid.UUID, name, email string) Carrier {
	return Carrier{Identity: NewIdentity(id, name, email)}
}

func (c Carrier) Role() Role { return RoleCarrier }
