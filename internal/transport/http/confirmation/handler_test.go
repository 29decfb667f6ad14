package confirmation

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestReferenceParamAliases(t *testing.T) {
	cases := []struct {
		target string
		want   string
	}{
		{"/api/orders/confirmation?ref=BWP-1", "BWP-1"},
		{"/api/orders/confirmation?order_ref=BWP-2", "BWP-2"},
		{"/api/orders/confirmation?orderRef=BWP-3", "BWP-3"},
		// ref wins when several aliases are present.
		{"/api/orders/confirmation?orderRef=BWP-3&ref=BWP-1", "BWP-1"},
		{"/api/orders/confirmation", ""},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.target, nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		assert.Equal(t, tc.want, referenceParam(c), "target %s", tc.target)
	}
}
