package domain

import "github.com/Apurer/petstore-api-harness/internal/shared/optional"

// Status enumerates order progression.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusApproved  Status = "approved"
	StatusDelivered Status = "delivered"
)

// Statuses lists the values the remote contract accepts.
func Statuses() []Status {
	return []Status{StatusPlaced, StatusApproved, StatusDelivered}
}

// Valid reports whether s is one of the contract literals.
func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusApproved, StatusDelivered:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// Order is the wire record for store purchase orders. The remote contract
// expects a non-negative Quantity; the harness forwards whatever it is given.
type Order struct {
	ID       *int64 `json:"id,omitempty"`
	PetID    *int64 `json:"petId,omitempty"`
	Quantity *int32 `json:"quantity,omitempty"`
	ShipDate string `json:"shipDate,omitempty"`
	Status   Status `json:"status,omitempty"`
	Complete *bool  `json:"complete,omitempty"`
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	return &Order{
		ID:       optional.Clone(o.ID),
		PetID:    optional.Clone(o.PetID),
		Quantity: optional.Clone(o.Quantity),
		ShipDate: o.ShipDate,
		Status:   o.Status,
		Complete: optional.Clone(o.Complete),
	}
}
