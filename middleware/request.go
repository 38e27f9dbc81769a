package middleware

import (
	"github.com/siherrmann/dataManager/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestContextMiddleware stores the request context and tags every request
// with an id, reusing an incoming X-Request-ID header.
func (r *Middleware) RequestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rc := model.GetRequestContext(c)

		rc.Url = c.Request().URL.Path
		rc.HxRequest = c.Request().Header.Get("hx-request") == "true"
		rc.RequestID = c.Request().Header.Get(echo.HeaderXRequestID)
		if rc.RequestID == "" {
			rc.RequestID = uuid.NewString()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, rc.RequestID)

		model.SetRequestContext(c, rc)

		return next(c)
	}
}
