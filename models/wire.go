package models

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// WireCustomer is the customer as Moltin expects it.
type WireCustomer struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// WireAddress is a full address as Moltin expects it.
type WireAddress struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	SaveAs    string `json:"save_as,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	County    string `json:"county"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// AddressRef is either a bare address id or a full address. It encodes as a
// JSON string in the first case and as an object in the second.
type AddressRef struct {
	ID      string
	Address *WireAddress
}

// IsID reports whether the reference is a bare id.
func (r AddressRef) IsID() bool {
	return r.Address == nil
}

func (r AddressRef) MarshalJSON() ([]byte, error) {
	if r.Address != nil {
		return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(r.Address)
	}
	if r.ID == "" {
		return nil, errors.New("models: empty address reference")
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(r.ID)
}

// Variant names which of the four checkout shapes was produced.
type Variant int

const (
	// BothAddresses: ship_to and bill_to are full objects.
	BothAddresses Variant = iota
	// BillingOnFile: bill_to is an id, ship_to a full object.
	BillingOnFile
	// ShippingOnFile: ship_to is an id, bill_to a full object.
	ShippingOnFile
	// BothOnFile: ship_to and bill_to are ids.
	BothOnFile
)

func (v Variant) String() string {
	switch v {
	case BothAddresses:
		return "both-addresses"
	case BillingOnFile:
		return "billing-on-file"
	case ShippingOnFile:
		return "shipping-on-file"
	case BothOnFile:
		return "both-on-file"
	}
	return "unknown"
}

// CheckoutWireShape is the checkout body posted to Moltin.
type CheckoutWireShape struct {
	CartID   string       `json:"cart_id"`
	Gateway  string       `json:"gateway"`
	Shipping string       `json:"shipping"`
	Customer WireCustomer `json:"customer"`
	ShipTo   AddressRef   `json:"ship_to"`
	BillTo   AddressRef   `json:"bill_to"`
}

// Variant reports the shape selected for the two address references.
func (w CheckoutWireShape) Variant() Variant {
	switch {
	case w.ShipTo.IsID() && w.BillTo.IsID():
		return BothOnFile
	case w.BillTo.IsID():
		return BillingOnFile
	case w.ShipTo.IsID():
		return ShippingOnFile
	}
	return BothAddresses
}
