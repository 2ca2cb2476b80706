package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationClamps(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-3", nil)
	page := ParsePagination(req, 20, 100)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestValidatorSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Add("year", "is required")
	v.Required("period", " ", "is required")
	v.Add("achievements", "")

	require.True(t, v.HasIssues())
	issues := v.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "period", issues[0].Field)
	assert.Equal(t, "year", issues[1].Field)

	rec := httptest.NewRecorder()
	assert.True(t, v.Reject(rec, "req"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.False(t, DecodeJSON(rec, req, &dst, "req"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","ignored":true}`))
	assert.True(t, DecodeJSON(rec, req, &dst, "req"))
	assert.Equal(t, "a", dst.Name)
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?year=2026&bad=x&blank=%20", nil)

	value, ok, err := QueryInt(req, "year")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2026, value)

	_, ok, err = QueryInt(req, "bad")
	assert.True(t, ok)
	assert.Error(t, err)

	_, ok, err = QueryInt(req, "blank")
	assert.False(t, ok)
	assert.NoError(t, err)
}
