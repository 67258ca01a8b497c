package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/delivery"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	"github.com/x-xyz/goroyalty/base/validator"
)

// GoMiddleware represent the data-struct for middleware
type GoMiddleware struct {
	// another stuff , may be needed by middleware
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{}
}

// CORS will handle the CORS middleware
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// AddContext stores a ctx.Ctx tagged with the request id under "ctx".
// It runs after echo's RequestID middleware.
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			cont := ctx.WithValue(ctx.Wrap(c.Request().Context()), "requestID", c.Response().Header().Get(echo.HeaderXRequestID))
			c.Set("ctx", cont)
			return next(c)
		}
	}
}

const respFieldsKey = "respFields"

// TagResponse adds fields to the response log line of c, e.g. the groupId
// and round of a committed group
func TagResponse(c echo.Context, fields log.Fields) {
	tagged, _ := c.Get(respFieldsKey).(log.Fields)
	if tagged == nil {
		tagged = log.Fields{}
		c.Set(respFieldsKey, tagged)
	}
	for k, v := range fields {
		tagged[k] = v
	}
}

func responseFields(c echo.Context, took time.Duration, err error) log.Fields {
	req := c.Request()
	res := c.Response()

	fields := log.Fields{
		"ms":         took.Seconds() * 1000,
		"httpStatus": res.Status,
		"httpMethod": req.Method,
		"route":      c.Path(),
		"uri":        req.URL.Path,
		"size":       res.Size,
		"remoteIP":   c.RealIP(),
		"userAgent":  req.UserAgent(),
	}
	if res.Status >= 400 && err != nil {
		fields["nextErr"] = err
	}
	if tagged, ok := c.Get(respFieldsKey).(log.Fields); ok {
		for k, v := range tagged {
			fields[k] = v
		}
	}
	return fields
}

// ResponseLogger logs response for every request
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	met := metrics.New("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer met.BumpTime("request.time", "method", c.Request().Method, "path", c.Path()).End()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			c.Get("ctx").(ctx.Ctx).WithFields(responseFields(c, time.Since(start), err)).Info("response")
			return nil
		}
	}
}

// IsValidAddress rejects requests whose path param is not an account address
func IsValidAddress(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if !validator.IsValidAddress(c.Param(param)) {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid address")
			}
			return next(c)
		}
	}
}
