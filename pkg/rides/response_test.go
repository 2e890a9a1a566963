package rides

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	httpResp := &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header: http.Header{
			"Content-Type":           {"application/json"},
			"X-Rate-Limit-Limit":     {"2000"},
			"X-Rate-Limit-Remaining": {"1999"},
			"X-Rate-Limit-Reset":     {"1700000000"},
		},
		Body: io.NopCloser(strings.NewReader(`{"products":[{"product_id":"a1","display_name":"Pool"}]}`)),
	}

	resp, err := NewResponse(httpResp)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason)
	assert.True(t, resp.Success())
	assert.Equal(t, 2000, resp.RateLimit.Limit)
	assert.Equal(t, 1999, resp.RateLimit.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0), resp.RateLimit.Reset)
	assert.NotNil(t, resp.JSON)

	var list ProductList
	require.NoError(t, resp.Decode(&list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Pool", list.Products[0].DisplayName)
}

func TestBuildResponse(t *testing.T) {
	t.Run("non json body", func(t *testing.T) {
		resp := BuildResponse(http.StatusBadGateway, "", nil, []byte("<html>"))

		assert.Nil(t, resp.JSON)
		assert.Equal(t, "Bad Gateway", resp.Reason)
		assert.NotNil(t, resp.Headers)
		assert.False(t, resp.Success())
	})

	t.Run("missing rate limit headers", func(t *testing.T) {
		resp := BuildResponse(http.StatusNoContent, "No Content", http.Header{}, nil)

		assert.Equal(t, RateLimit{}, resp.RateLimit)
		assert.Nil(t, resp.JSON)
	})

	t.Run("custom reason", func(t *testing.T) {
		resp := BuildResponse(http.StatusConflict, "Surge", nil, nil)
		assert.Equal(t, "Surge", resp.Reason)
	})
}

func TestValidRideStatus(t *testing.T) {
	assert.True(t, ValidRideStatus(RideStatusAccepted))
	assert.True(t, ValidRideStatus("driver_canceled"))
	assert.False(t, ValidRideStatus("rider_canceled"))
}
