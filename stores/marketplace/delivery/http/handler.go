package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/marketplace"
)

type handler struct {
	marketplace marketplace.UseCase
}

func New(e *echo.Echo, marketplace marketplace.UseCase) {
	h := &handler{marketplace}

	e.GET("/marketplaces/:appId/listing", h.getListing)
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	app, err := delivery.ParamUint64(c, "appId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	l, err := h.marketplace.FindListing(ctx, domain.AppId(app))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, l)
}
