package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	hcdomain "github.com/x-xyz/goroyalty/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New mounts GET /health
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	e.GET("/health", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	st, err := h.healthCheck.Check(context)
	if err != nil {
		// a failing backend is never the caller's fault
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err.Error())
	}
	return delivery.MakeJsonResp(c, http.StatusOK, st)
}
