package middleware

import (
	"net/http"

	"github.com/siherrmann/dataManager/handler"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

func (r Middleware) CsrfMiddleware() echo.MiddlewareFunc {
	csrfMiddleware := csrf.Protect(
		r.csrfKey,
		csrf.Path("/"),
		csrf.Secure(r.secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(handler.HandleCSRFErrorView)),
		csrf.TrustedOrigins(r.trustedOrigins),
	)
	return echo.WrapMiddleware(csrfMiddleware)
}
