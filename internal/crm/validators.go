package crm

import "regexp"

// Pure input-format checks shared by the mutation handlers. Referential
// checks (customer/product existence, email uniqueness) live on the
// repositories since they need the store.

var (
	// local@domain with a dot-separated domain part
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// +<10-15 digits> or <3>-<3>-<4>
	phonePattern = regexp.MustCompile(`^(\+\d{10,15}|\d{3}-\d{3}-\d{4})$`)
)

// ValidateEmail reports whether email has a plausible local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone reports whether phone is empty (phone is optional) or
// matches one of the two accepted formats.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidatePrice reports whether price is strictly positive.
func ValidatePrice(price float64) bool {
	return price > 0
}

// ValidateStock reports whether stock is absent or non-negative.
func ValidateStock(stock *int) bool {
	return stock == nil || *stock >= 0
}
