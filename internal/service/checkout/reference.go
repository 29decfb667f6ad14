package checkout

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/brightwealth/summit/internal/entity"
)

// Reference prefixes per product kind. References double as the order's
// primary lookup key across confirmation and the admin dashboard, so the
// prefix lets later stages tell product kinds apart without a lookup.
const (
	TicketReferencePrefix = "BWP-"
	BookReferencePrefix   = "BOOK-"
)

// NewReference mints an order reference like BWP-4F21A9C3. The reference
// is immutable once created.
func NewReference(productType string) string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	suffix := fmt.Sprintf("%08X", binary.BigEndian.Uint32(buf[:]))

	if productType == entity.ProductBook {
		return BookReferencePrefix + suffix
	}
	return TicketReferencePrefix + suffix
}

// KindFromReference infers the product kind from a reference prefix.
func KindFromReference(reference string) string {
	if len(reference) >= len(BookReferencePrefix) && reference[:len(BookReferencePrefix)] == BookReferencePrefix {
		return entity.ProductBook
	}
	return entity.ProductTicket
}
