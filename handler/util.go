package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/siherrmann/dataManager/database"
	"github.com/siherrmann/dataManager/view"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	vm "github.com/siherrmann/validator/model"
)

func render(ctx echo.Context, t templ.Component, status ...int) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(ctx.Request().Context(), buf); err != nil {
		return err
	}

	if len(status) > 0 {
		return ctx.HTML(status[0], buf.String())
	}
	return ctx.HTML(http.StatusOK, buf.String())
}

func renderPopup(c echo.Context, component templ.Component, status int) error {
	c.Response().Header().Add("HX-Retarget", "#body")
	c.Response().Header().Add("HX-Reswap", "beforeend")
	return render(c, component, status)
}

func renderPopupHTTP(writer http.ResponseWriter, component templ.Component, status int) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(context.Background(), buf); err != nil {
		return err
	}

	writer.Header().Add("HX-Retarget", "#body")
	writer.Header().Add("HX-Reswap", "beforeend")
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, err := fmt.Fprint(writer, buf.String())
	return err
}

// renderPopupOrJson answers htmx requests with a popup and everything else
// with {"message": value[0], "value": value[1]}.
func renderPopupOrJson(c echo.Context, status int, value ...any) error {
	// No value to render
	if len(value) == 0 {
		return c.NoContent(status)
	}

	messageStr := ""
	if messageTemp, ok := value[0].(string); ok {
		messageStr = messageTemp
	} else {
		messageStr = fmt.Sprintf("%v", value[0])
	}

	// If HTMX request, render popup
	if c.Request().Header.Get("HX-Request") != "" {
		if status >= 200 && status < 300 {
			return renderPopup(c, view.PopupSuccess("Info", messageStr), status)
		}
		return renderPopup(c, view.PopupError("Error", messageStr), status)
	}

	values := map[string]any{"message": messageStr}
	if len(value) > 1 {
		values["value"] = value[1]
	}
	return c.JSON(status, values)
}

// errorStatus maps row store errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrTableNotFound), errors.Is(err, database.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateRow):
		return http.StatusConflict
	case errors.Is(err, database.ErrInvalidRow), errors.Is(err, database.ErrAmbiguousRow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// renderError answers with the status of err. Internal errors are logged
// and their details are not sent to the client.
func (m *ManagerHandler) renderError(c echo.Context, message string, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		m.logger.Error(message, "path", c.Request().URL.Path, "error", err)
		return renderPopupOrJson(c, status, message)
	}
	return renderPopupOrJson(c, status, fmt.Sprintf("%s: %v", message, err))
}

// validateParameters checks path and query parameters with the validator,
// which reads its input from a json request.
func (m *ManagerHandler) validateParameters(parameters map[string]any, validations []vm.Validation) error {
	body, err := json.Marshal(parameters)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	validated := map[string]any{}
	return m.validator.UnmapOrUnmarshalValidateAndUpdateWithValidation(req, &validated, validations)
}
