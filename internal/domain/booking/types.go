package booking

type RequestStatus string

const (
	RequestIssued   RequestStatus = "issued"
	RequestBooked   RequestStatus = "booked"
	RequestCanceled RequestStatus = "canceled"
	RequestExpired  RequestStatus = "expired"
)

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestIssued, RequestBooked, RequestCanceled, RequestExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the request has left the open market.
// A request leaves Issued exactly once; every later booking attempt
// against it must fail.
func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && s != RequestIssued
}

type OfferStatus string

const (
	OfferIssued   OfferStatus = "issued"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferCanceled OfferStatus = "canceled"
	// OfferReplaced is reserved for a future supersede flow when a
	// carrier re-bids on the same request; nothing sets it yet.
	OfferReplaced OfferStatus = "replaced"
)

func (s OfferStatus) String() string {
	return string(s)
}

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferIssued, OfferAccepted, OfferRejected, OfferCanceled, OfferReplaced:
		return true
	default:
		return false
	}
}

type ShipmentStatus string

const (
	ShipmentSubmitted ShipmentStatus = "submitted"
	ShipmentConfirmed ShipmentStatus = "confirmed"
	ShipmentReverted  ShipmentStatus = "reverted"
	ShipmentAborted   ShipmentStatus = "aborted"
)

func (s ShipmentStatus) String() string {
	return string(s)
}

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentSubmitted, ShipmentConfirmed, ShipmentReverted, ShipmentAborted:
		return true
	default:
		return false
	}
}

func (s ShipmentStatus) IsTerminal() bool {
	return s.IsValid() && s != ShipmentSubmitted
}
