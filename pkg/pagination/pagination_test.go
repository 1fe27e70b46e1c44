package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Extract(c)
}

func TestExtractDefaults(t *testing.T) {
	params := paramsFor(t, "")
	require.Equal(t, DefaultPage, params.Page)
	require.Equal(t, DefaultLimit, params.Limit)
	require.Zero(t, params.Skip)
}

func TestExtractComputesSkip(t *testing.T) {
	params := paramsFor(t, "page=3&limit=10")
	require.Equal(t, 3, params.Page)
	require.Equal(t, 10, params.Limit)
	require.Equal(t, 20, params.Skip)
}

func TestExtractCapsLimit(t *testing.T) {
	params := paramsFor(t, "limit=5000")
	require.Equal(t, MaxLimit, params.Limit)
}

func TestExtractIgnoresGarbage(t *testing.T) {
	params := paramsFor(t, "page=-2&limit=abc")
	require.Equal(t, DefaultPage, params.Page)
	require.Equal(t, DefaultLimit, params.Limit)
}

func TestMetadataFrom(t *testing.T) {
	meta := MetadataFrom(45, Params{Page: 2, Limit: 20, Skip: 20})
	require.Equal(t, int64(45), meta.TotalItems)
	require.Equal(t, 3, meta.TotalPages)
	require.True(t, meta.HasNextPage)
	require.True(t, meta.HasPrevPage)

	meta = MetadataFrom(0, Params{Page: 1, Limit: 20})
	require.Zero(t, meta.TotalPages)
	require.False(t, meta.HasNextPage)
	require.False(t, meta.HasPrevPage)
}
