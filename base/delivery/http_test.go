package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/service/query"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{xerrors.Errorf("offer: %w", domain.ErrNotFound), http.StatusNotFound},
		{query.ErrNotFound, http.StatusNotFound},
		{xerrors.Errorf("not admin: %w", domain.ErrUnauthorized), http.StatusForbidden},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{domain.ErrUnknownSelector, http.StatusBadRequest},
		{domain.ErrInternalServerError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorStatus(tt.err, http.StatusInternalServerError), tt.err.Error())
	}
}

func TestMakeJsonResp(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	require.NoError(t, MakeJsonResp(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), http.StatusOK, map[string]int{"a": 1}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"a":1},"status":"success"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, MakeJsonResp(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), http.StatusInternalServerError, domain.ErrConflict))
	assert.Equal(t, http.StatusConflict, rec.Code)
	res := JsonResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, JsonResponseStatusFail, res.Status)
	assert.Equal(t, domain.ErrConflict.Error(), res.Data)
}
