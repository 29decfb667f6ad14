package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brightwealth/summit/pkg/errorbank"
)

// emailPattern is deliberately loose: non-empty local part, an @, and a
// dotted domain. The gateway re-validates on its side.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateBuyer(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return errorbank.BadRequest("please enter your name")
	}
	if strings.TrimSpace(email) == "" {
		return errorbank.BadRequest("please enter your email address")
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return errorbank.BadRequest("please enter a valid email address")
	}
	return nil
}

func validateQuantity(quantity, max int) error {
	if quantity < 1 || quantity > max {
		return errorbank.BadRequest(fmt.Sprintf("quantity must be between 1 and %d", max))
	}
	return nil
}

func validateShipping(address, city, postcode string) error {
	if strings.TrimSpace(address) == "" {
		return errorbank.BadRequest("please enter your delivery address")
	}
	if strings.TrimSpace(city) == "" {
		return errorbank.BadRequest("please enter your city")
	}
	if strings.TrimSpace(postcode) == "" {
		return errorbank.BadRequest("please enter your postcode")
	}
	return nil
}

// FormatAmount renders minor currency units with two decimals, e.g.
// 2000 -> "20.00".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
