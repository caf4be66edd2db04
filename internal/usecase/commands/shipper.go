package commands

import (
	"context"

	"delivery-market/internal/domain/booking"
	"delivery-market/internal/domain/user"
	"delivery-market/internal/pkg/clock"
	"delivery-market/internal/pkg/errs"

	"github.com/google/uuid"
)

type ShipperCommands interface {
	CreateRequest(ctx context.Context, shipper user.Shipper, in CreateRequestInput) (*booking.Request, error)
	AcceptOffer(ctx context.Context, shipper user.Shipper, requestID, offerID uuid.UUID) error
	RejectOffer(ctx context.Context, shipper user.Shipper, requestID, offerID uuid.UUID) error
	CancelRequest(ctx context.Context, shipper user.Shipper, requestID uuid.UUID) error
}

type shipperCommandsImpl struct {
	requests  RequestRepository
	offers    OfferRepository
	shipments ShipmentRepository
	clock     clock.Clock
}

func NewShipperCommands(
	requests RequestRepository,
	offers OfferRepository,
	shipments ShipmentRepository,
	clock clock.Clock,
) ShipperCommands {
	return &shipperCommandsImpl{
		requests:  requests,
		offers:    offers,
		shipments: shipments,
		clock:     clock,
	}
}

func (c *shipperCommandsImpl) CreateRequest(ctx context.Context, shipper user.Shipper, in CreateRequestInput) (*booking.Request, error) {
	route, err := in.route()
	if err != nil {
		return nil, err
	}

	budget, err := booking.NewMoney(in.BudgetCents)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	req, err := booking.NewRequest(shipper.ID(), route, budget, in.ExpiresAt, in.Notes, c.clock.Now(), initialVersion)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	if err := c.requests.Create(ctx, req); err != nil {
		return nil, markRepoErr(err, "failed to create request")
	}
	return req, nil
}

// AcceptOffer books a specific offer. The shipment is written first and
// is never rolled back here: when either closing write loses a version
// race, the caller sees a conflict and the sweeper settles the outcome.
func (c *shipperCommandsImpl) AcceptOffer(ctx context.Context, shipper user.Shipper, requestID, offerID uuid.UUID) error {
	req, err := c.getOwnedIssuedRequest(ctx, shipper, requestID)
	if err != nil {
		return err
	}

	offer, err := c.getIssuedOffer(ctx, offerID)
	if err != nil {
		return err
	}

	shipment := booking.NewShipment(requestID, offerID, c.clock.Now(), initialVersion)
	if err := c.shipments.Create(ctx, shipment); err != nil {
		return markRepoErr(err, "failed to create shipment")
	}

	// Both closing writes are attempted independently.
	_, reqErr := c.requests.SetStatus(ctx, requestID, req.Version(), booking.RequestBooked)
	_, offErr := c.offers.SetStatus(ctx, offerID, offer.Version(), booking.OfferAccepted)
	if reqErr != nil {
		return markRepoErr(reqErr, "failed to book request")
	}
	if offErr != nil {
		return markRepoErr(offErr, "failed to accept offer")
	}
	return nil
}

func (c *shipperCommandsImpl) RejectOffer(ctx context.Context, shipper user.Shipper, requestID, offerID uuid.UUID) error {
	if _, err := c.getOwnedIssuedRequest(ctx, shipper, requestID); err != nil {
		return err
	}

	offer, err := c.getIssuedOffer(ctx, offerID)
	if err != nil {
		return err
	}

	if _, err := c.offers.SetStatus(ctx, offerID, offer.Version(), booking.OfferRejected); err != nil {
		return markRepoErr(err, "failed to reject offer")
	}
	return nil
}

func (c *shipperCommandsImpl) CancelRequest(ctx context.Context, shipper user.Shipper, requestID uuid.UUID) error {
	req, err := c.getOwnedIssuedRequest(ctx, shipper, requestID)
	if err != nil {
		return err
	}

	if _, err := c.requests.SetStatus(ctx, requestID, req.Version(), booking.RequestCanceled); err != nil {
		return markRepoErr(err, "failed to cancel request")
	}
	return nil
}

func (c *shipperCommandsImpl) getOwnedIssuedRequest(ctx context.Context, shipper user.Shipper, requestID uuid.UUID) (*booking.Request, error) {
	req, err := c.requests.Get(ctx, requestID)
	if err != nil {
		return nil, markRepoErr(err, "failed to fetch request")
	}
	if !req.IsOwnedBy(shipper.ID()) {
		return nil, errs.Mark(errs.Newf("%s is not the owner of request %s", shipper.ID(), requestID), errs.ErrForbidden)
	}
	if !req.IsIssued() {
		return nil, errs.Mark(errs.Newf("request is %s", req.Status()), errs.ErrInvalidState)
	}
	return req, nil
}

func (c *shipperCommandsImpl) getIssuedOffer(ctx context.Context, offerID uuid.UUID) (booking.Offer, error) {
	offer, err := c.offers.Get(ctx, offerID)
	if err != nil {
		return booking.Offer{}, markRepoErr(err, "failed to fetch offer")
	}
	if !offer.IsIssued() {
		return booking.Offer{}, errs.Mark(errs.Newf("offer is %s", offer.Status()), errs.ErrInvalidState)
	}
	return offer, nil
}
