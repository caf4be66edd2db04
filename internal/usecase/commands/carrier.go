package commands

import (
	"context"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/domain/user"
	"delivery-market/internal/pkg/clock"
	"delivery-market/internal/pkg/errs"

	"github.com/google/uuid"
)

type CarrierCommands interface {
	MakeOffer(ctx context.Context, carrier user.Carrier, requestID uuid.UUID, budgetCents int64) (booking.Offer, error)
	BookShipment(ctx context.Context, carrier user.Carrier, requestID uuid.UUID) error
}

type carrierCommandsImpl struct {
	requests  RequestRepository
	offers    OfferRepository
	shipments ShipmentRepository
	clock     clock.Clock
}

func NewCarrierCommands(
	requests RequestRepository,
	offers OfferRepository,
	shipments ShipmentRepository,
	clock clock.Clock,
) CarrierCommands {
	return &carrierCommandsImpl{
		requests:  requests,
		offers:    offers,
		shipments: shipments,
		clock:     clock,
	}
}

func (c *carrierCommandsImpl) MakeOffer(ctx context.Context, carrier user.Carrier, requestID uuid.UUID, budgetCents int64) (booking.Offer, error) {
	budget, err := booking.NewMoney(budgetCents)
	if err != nil {
		return booking.Offer{}, errs.Mark(err, errs.ErrInvalidInput)
	}

	if _, err := c.getIssuedRequest(ctx, requestID); err != nil {
		return booking.Offer{}, err
	}

	offer := booking.NewOffer(carrier.ID(), requestID, budget, initialVersion)
	if err := c.offers.Create(ctx, offer); err != nil {
		return booking.Offer{}, markRepoErr(err, "failed to create offer")
	}
	return offer, nil
}

// BookShipment is the direct-booking path: the carrier takes the request
// at its asking budget. A fresh offer is created even when the carrier
// already holds one at a different price. This can race with AcceptOffer
// on another instance; both sides may commit a Submitted shipment and the
// sweeper picks the single winner afterwards.
func (c *carrierCommandsImpl) BookShipment(ctx context.Context, carrier user.Carrier, requestID uuid.UUID) error {
	req, err := c.getIssuedRequest(ctx, requestID)
	if err != nil {
		return err
	}

	offer := booking.NewOffer(carrier.ID(), requestID, req.Budget(), initialVersion)
	if err := c.offers.Create(ctx, offer); err != nil {
		return markRepoErr(err, "failed to create offer")
	}

	shipment := booking.NewShipment(requestID, offer.ID(), c.clock.Now(), initialVersion)
	if err := c.shipments.Create(ctx, shipment); err != nil {
		return markRepoErr(err, "failed to create shipment")
	}

	_, reqErr := c.requests.SetStatus(ctx, requestID, req.Version(), booking.RequestBooked)
	_, offErr := c.offers.SetStatus(ctx, offer.ID(), offer.Version(), booking.OfferAccepted)
	if reqErr != nil {
		return markRepoErr(reqErr, "failed to book request")
	}
	if offErr != nil {
		return markRepoErr(offErr, "failed to accept offer")
	}
	return nil
}

func (c *carrierCommandsImpl) getIssuedRequest(ctx context.Context, requestID uuid.UUID) (*booking.Request, error) {
	req, err := c.requests.Get(ctx, requestID)
	if err != nil {
		return nil, markRepoErr(err, "failed to fetch request")
	}
	if !req.IsIssued() {
		return nil, errs.Mark(errs.Newf("request is %s", req.Status()), errs.ErrInvalidState)
	}
	return req, nil
}
