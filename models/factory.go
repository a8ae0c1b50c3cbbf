package models

// ToWireShape maps req into the checkout body Moltin expects. Addresses with
// an ID are sent as references, all others as full objects.
func ToWireShape(req CheckoutRequest) CheckoutWireShape {
	return CheckoutWireShape{
		CartID:   req.CartID,
		Gateway:  req.Gateway,
		Shipping: req.ShippingMethod,
		Customer: ToWireCustomer(req.Customer),
		ShipTo:   toAddressRef(req.ShipTo),
		BillTo:   toAddressRef(req.BillTo),
	}
}

// ToWireCustomer flattens a customer into its wire form.
func ToWireCustomer(c Customer) WireCustomer {
	return WireCustomer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}

// ToWireAddress converts a full address into its wire form.
func ToWireAddress(a Address) WireAddress {
	return WireAddress{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		SaveAs:    a.SaveAs,
		Address1:  a.AddressLine1,
		Address2:  a.AddressLine2,
		City:      a.City,
		County:    a.County,
		Postcode:  a.PostCode,
		Country:   a.Country,
	}
}

func toAddressRef(a Address) AddressRef {
	if a.OnFile() {
		return AddressRef{ID: a.ID}
	}
	w := ToWireAddress(a)
	return AddressRef{Address: &w}
}
