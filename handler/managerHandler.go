package handler

import (
	"log/slog"
	"net/http"

	"github.com/siherrmann/dataManager/database"
	"github.com/siherrmann/dataManager/snapshot"

	"github.com/labstack/echo/v4"
	"github.com/siherrmann/validator"
)

type ManagerHandler struct {
	filesystem snapshot.Filesystem
	rowDB      database.RowDBHandlerFunctions
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewManagerHandler(filesystem snapshot.Filesystem, rowDB database.RowDBHandlerFunctions, logger *slog.Logger) *ManagerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManagerHandler{
		filesystem: filesystem,
		rowDB:      rowDB,
		logger:     logger,
		validator:  validator.NewValidator(),
	}
}

// Health check handler
func (m *ManagerHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "data-manager",
	})
}
