package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/middleware"
)

type handler struct {
	enforcer enforcer.UseCase
}

type administratorResp struct {
	Administrator domain.Address `json:"administrator"`
}

func New(e *echo.Echo, enforcer enforcer.UseCase) {
	h := &handler{enforcer}

	g := e.Group("/enforcers/:appId")
	g.GET("/policy", h.getPolicy)
	g.GET("/administrator", h.getAdministrator)
	g.GET("/offers/:owner/:assetId", h.getOffer, middleware.IsValidAddress("owner"))
}

func (h *handler) getPolicy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	app, err := delivery.ParamUint64(c, "appId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p, err := h.enforcer.FindPolicy(ctx, domain.AppId(app))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

func (h *handler) getAdministrator(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	app, err := delivery.ParamUint64(c, "appId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	admin, err := h.enforcer.FindAdministrator(ctx, domain.AppId(app))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, administratorResp{admin})
}

func (h *handler) getOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	app, err := delivery.ParamUint64(c, "appId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	owner, err := delivery.ParamAddress(c, "owner")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	asset, err := delivery.ParamUint64(c, "assetId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	offer, err := h.enforcer.FindOffer(ctx, domain.AppId(app), owner, domain.AssetId(asset))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, offer)
}
