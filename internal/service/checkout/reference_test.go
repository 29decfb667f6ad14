package checkout

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightwealth/summit/internal/entity"
)

var referencePattern = regexp.MustCompile(`^(BWP|BOOK)-[0-9A-F]{8}$`)

func TestNewReference(t *testing.T) {
	ticket := NewReference(entity.ProductTicket)
	book := NewReference(entity.ProductBook)

	assert.Regexp(t, referencePattern, ticket)
	assert.Regexp(t, referencePattern, book)
	assert.Contains(t, ticket, TicketReferencePrefix)
	assert.Contains(t, book, BookReferencePrefix)
	assert.NotEqual(t, NewReference(entity.ProductTicket), NewReference(entity.ProductTicket))
}

func TestKindFromReference(t *testing.T) {
	assert.Equal(t, entity.ProductTicket, KindFromReference("BWP-4F21A9C3"))
	assert.Equal(t, entity.ProductBook, KindFromReference("BOOK-4F21A9C3"))
	assert.Equal(t, entity.ProductTicket, KindFromReference("unknown"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "20.00", FormatAmount(2000))
	assert.Equal(t, "23.98", FormatAmount(2398))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "-1.50", FormatAmount(-150))
}
