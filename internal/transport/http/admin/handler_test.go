package admin

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) echo.Context {
	req := httptest.NewRequest("GET", target, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"Bearer  spaced ", "spaced"},
	}

	for _, tc := range cases {
		c := testContext("/api/admin/orders")
		if tc.header != "" {
			c.Request().Header.Set(echo.HeaderAuthorization, tc.header)
		}
		assert.Equal(t, tc.want, bearerToken(c), "header %q", tc.header)
	}
}

func TestOrderFilter(t *testing.T) {
	c := testContext("/api/admin/orders?product_type=book&status=pending&q=jane")
	filter := orderFilter(c)
	assert.Equal(t, "book", filter.ProductType)
	assert.Equal(t, "pending", filter.Status)
	assert.Equal(t, "jane", filter.Query)
}

func TestMetricsRangeDefaults(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	from, to, err := metricsRange(testContext("/api/admin/metrics"), now)
	require.NoError(t, err)
	assert.Equal(t, now, to)
	assert.Equal(t, now.Add(-defaultMetricsWindow), from)
}

func TestMetricsRangeExplicit(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	from, to, err := metricsRange(testContext("/api/admin/metrics?from=2026-03-01&to=2026-03-15"), now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), to)
}

func TestMetricsRangeRejectsBadInput(t *testing.T) {
	now := time.Now()

	_, _, err := metricsRange(testContext("/api/admin/metrics?from=yesterday"), now)
	require.Error(t, err)

	_, _, err = metricsRange(testContext("/api/admin/metrics?from=2026-03-15&to=2026-03-01"), now)
	require.Error(t, err)
}
