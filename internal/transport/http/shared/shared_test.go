package shared

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 4, parsed.Day())

	parsed, err = ParseDate("2025-03-04T10:30:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.Hour())

	parsed, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())

	_, err = ParseDate("04.03.2025")
	assert.Error(t, err)
}

func TestFormatDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", FormatDate(parsed))
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=25&offset=50", nil)
	page := ParsePagination(r, 50, 200)
	assert.Equal(t, 25, page.Limit)
	assert.Equal(t, 50, page.Offset)

	r = httptest.NewRequest("GET", "/", nil)
	page = ParsePagination(r, 50, 200)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 0, page.Offset)

	r = httptest.NewRequest("GET", "/?limit=9999&offset=-3", nil)
	page = ParsePagination(r, 50, 200)
	assert.Equal(t, 200, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:51234"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}
