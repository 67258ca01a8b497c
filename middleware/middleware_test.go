package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
)

func TestAddContextAndAddressCheck(t *testing.T) {
	m := InitMiddleware()
	e := echo.New()
	e.Use(echoMiddleware.RequestID())
	e.Use(m.AddContext())
	e.Use(m.ResponseLogger())
	e.Use(m.CORS)
	e.GET("/accounts/:address", func(c echo.Context) error {
		_, ok := c.Get("ctx").(ctx.Ctx)
		assert.True(t, ok)
		return c.NoContent(http.StatusNoContent)
	}, IsValidAddress("address"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/0x01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/0x"+"0a"+strings.Repeat("00", 31), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}


func TestResponseFieldsCarryTags(t *testing.T) {
	e := echo.New()
	e.GET("/groups/:groupId", func(c echo.Context) error {
		TagResponse(c, log.Fields{"groupId": "g1"})
		TagResponse(c, log.Fields{"round": uint64(4)})
		if err := c.NoContent(http.StatusNoContent); err != nil {
			return err
		}

		fields := responseFields(c, 3*time.Millisecond, nil)
		assert.Equal(t, "g1", fields["groupId"])
		assert.Equal(t, uint64(4), fields["round"])
		assert.Equal(t, "/groups/:groupId", fields["route"])
		assert.Equal(t, http.StatusNoContent, fields["httpStatus"])
		assert.NotContains(t, fields, "nextErr")
		return nil
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/g1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
