package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/middleware"
	"github.com/x-xyz/goroyalty/service/cache/provider"
)

// committed groups never change
const groupCacheTTL = 10 * time.Minute

var met metrics.Service

type handler struct {
	ledger ledger.UseCase
}

// New mounts the ledger routes. groupCache may be nil to serve groups uncached.
func New(e *echo.Echo, ledger ledger.UseCase, groupCache provider.Provider) {
	met = metrics.New("ledger.http")

	h := &handler{ledger}

	groupMiddlewares := []echo.MiddlewareFunc{}
	if groupCache != nil {
		groupMiddlewares = append(groupMiddlewares, middleware.CacheHttp(groupCache, groupCacheTTL))
	}

	e.POST("/groups", h.submit)
	e.GET("/groups/:groupId", h.getGroup, groupMiddlewares...)

	g := e.Group("/accounts/:address", middleware.IsValidAddress("address"))
	g.GET("", h.getAccount)
	g.GET("/assets/:assetId", h.getHolding)

	e.GET("/assets/:assetId", h.getAsset)
	e.GET("/apps/:appId", h.getApp)
}

func (h *handler) submit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	group := &ledger.Group{}
	if err := c.Bind(group); err != nil {
		ctx.WithField("err", err).Debug("failed to bind group")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid group")
	}
	if err := c.Validate(group); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	rec, err := h.ledger.Submit(ctx, group)
	if err != nil {
		met.BumpSum("submit.reject", 1)
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	met.BumpSum("submit.commit", 1)
	middleware.TagResponse(c, log.Fields{"groupId": rec.GroupId, "round": rec.Round})
	return delivery.MakeJsonResp(c, http.StatusOK, rec)
}

func (h *handler) getGroup(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	rec, err := h.ledger.FindGroup(ctx, c.Param("groupId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, rec)
}

func (h *handler) getAccount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	addr, err := delivery.ParamAddress(c, "address")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	acct, err := h.ledger.FindAccount(ctx, addr)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, acct)
}

func (h *handler) getHolding(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	addr, err := delivery.ParamAddress(c, "address")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	id, err := delivery.ParamUint64(c, "assetId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	holding, err := h.ledger.FindHolding(ctx, addr, domain.AssetId(id))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, holding)
}

func (h *handler) getAsset(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := delivery.ParamUint64(c, "assetId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	asset, err := h.ledger.FindAsset(ctx, domain.AssetId(id))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, asset)
}

func (h *handler) getApp(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := delivery.ParamUint64(c, "appId")
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	app, err := h.ledger.FindApp(ctx, domain.AppId(id))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "appId": id}).Debug("failed to ledger.FindApp")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, app)
}
