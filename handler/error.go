package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/siherrmann/dataManager/view"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// HandleError is the echo error handler. Errors are answered in the same
// {"message"} or popup shape the handlers use.
func HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Request().URL.Path, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = renderPopupOrJson(c, code, message)
	}
	if err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}

func HandleCSRFErrorView(w http.ResponseWriter, r *http.Request) {
	err := csrf.FailureReason(r)
	slog.Warn("CSRF error", "error", err)
	renderPopupHTTP(w, view.PopupError("Error", "Invalid CSRF token, please reload the page."), http.StatusForbidden)
}
