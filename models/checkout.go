// Package models holds the checkout domain objects accepted by the client and
// their Moltin wire representations.
package models

// CheckoutRequest describes an order to be placed for a cart.
type CheckoutRequest struct {
	CartID         string   `valid:"required"`
	Gateway        string   `valid:"required"`
	ShippingMethod string   `valid:"required"`
	Customer       Customer `valid:"-"`
	ShipTo         Address  `valid:"-"`
	BillTo         Address  `valid:"-"`
}

// Customer is the buyer. ID is set for customers already known to the store.
type Customer struct {
	ID        string
	FirstName string `valid:"required"`
	LastName  string `valid:"required"`
	Email     string `valid:"email,required"`
}

// Address is a shipping or billing address. An address with a non-empty ID
// is already on file and is sent as a reference.
type Address struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string
	SaveAs       string
	AddressLine1 string `valid:"required"`
	AddressLine2 string
	City         string `valid:"required"`
	County       string `valid:"required"`
	PostCode     string `valid:"required"`
	Country      string `valid:"required"`
}

// OnFile reports whether the address is referenced by ID.
func (a Address) OnFile() bool {
	return a.ID != ""
}
