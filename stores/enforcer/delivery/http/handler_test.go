package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/stores/enforcer/usecase"
	"github.com/x-xyz/goroyalty/stores/ledger/ledgertest"
)

type handlerSuite struct {
	suite.Suite
	w        *ledgertest.World
	e        *echo.Echo
	admin    domain.Address
	owner    domain.Address
	receiver domain.Address
	app      domain.AppId
	asset    domain.AssetId
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.admin = ledgertest.Addr(1)
	s.owner = ledgertest.Addr(2)
	s.receiver = ledgertest.Addr(3)
	s.w = ledgertest.New(s.T(), []domain.Address{s.admin, s.owner}, usecase.NewContract())
	s.app = s.w.CreateApp(s.admin, enforcer.Program)
	s.asset = s.w.CreateAsset(s.owner, ledgertest.ProtectedAsset(5, s.app.Address()))

	s.e = echo.New()
	s.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	New(s.e, usecase.New(&usecase.EnforcerUseCaseCfg{Ledger: s.w.Ledger}))
}

func (s *handlerSuite) get(path string, out interface{}) int {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	res := struct {
		Data   json.RawMessage             `json:"data"`
		Status delivery.JsonResponseStatus `json:"status"`
	}{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	if out != nil && res.Status == delivery.JsonResponseStatusSuccess {
		s.Require().NoError(json.Unmarshal(res.Data, out))
	}
	return rec.Code
}

func (s *handlerSuite) call(sender domain.Address, m abi.Method, args ...[]byte) {
	txn := ledger.AppCall(sender, s.app, m.Args(args...))
	txn.ForeignAssets = []domain.AssetId{s.asset}
	s.w.MustSubmit(txn)
}

func (s *handlerSuite) TestPolicy() {
	s.call(s.admin, enforcer.MethodSetPolicy, abi.Uint64(250), abi.Address(s.receiver))

	p := enforcer.PolicyView{}
	s.Require().Equal(http.StatusOK, s.get("/enforcers/"+s.app.String()+"/policy", &p))
	s.Equal(s.receiver, p.Receiver)
	s.Equal(uint64(250), p.Basis)
	s.True(decimal.RequireFromString("2.5").Equal(p.Percentage), p.Percentage.String())
}

func (s *handlerSuite) TestAdministrator() {
	res := administratorResp{}
	s.Require().Equal(http.StatusOK, s.get("/enforcers/"+s.app.String()+"/administrator", &res))
	s.Equal(s.admin, res.Administrator)
}

func (s *handlerSuite) TestOffer() {
	path := "/enforcers/" + s.app.String() + "/offers/" + s.owner.Hex() + "/" + s.asset.String()
	s.Equal(http.StatusNotFound, s.get(path, nil))

	s.call(s.owner, enforcer.MethodOffer, abi.Uint64(0), abi.Uint64(2), abi.Address(s.admin), abi.Uint64(0), abi.Address(domain.ZeroAddress))

	o := enforcer.OfferView{}
	s.Require().Equal(http.StatusOK, s.get(path, &o))
	s.Equal(s.admin, o.Auth)
	s.Equal(uint64(2), o.Amount)
	s.Equal(s.asset, o.AssetId)
}

func (s *handlerSuite) TestErrors() {
	s.Equal(http.StatusBadRequest, s.get("/enforcers/x/policy", nil))
	s.Equal(http.StatusNotFound, s.get("/enforcers/99/administrator", nil))
	s.Equal(http.StatusBadRequest, s.get("/enforcers/"+s.app.String()+"/offers/0x01/1", nil))
}
