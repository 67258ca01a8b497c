package delivery

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/domain"
)

// ParamUint64 parses the decimal path param name
func ParamUint64(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("param %s=%q: %w", name, c.Param(name), domain.ErrInvalidNumberFormat)
	}
	return v, nil
}

// ParamAddress parses the path param name as an account address
func ParamAddress(c echo.Context, name string) (domain.Address, error) {
	return domain.HexToAddress(c.Param(name))
}
