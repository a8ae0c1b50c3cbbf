package models

import (
	"fmt"

	"github.com/asaskevich/govalidator"
)

// Validate checks that req carries every field Moltin requires for a
// checkout. Addresses on file only need their ID.
func Validate(req CheckoutRequest) error {
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if _, err := govalidator.ValidateStruct(req.Customer); err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	if err := validateAddress(req.ShipTo); err != nil {
		return fmt.Errorf("ship_to: %w", err)
	}
	if err := validateAddress(req.BillTo); err != nil {
		return fmt.Errorf("bill_to: %w", err)
	}
	return nil
}

func validateAddress(a Address) error {
	if a.OnFile() {
		return nil
	}
	_, err := govalidator.ValidateStruct(a)
	return err
}
