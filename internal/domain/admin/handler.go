package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	grp := api.Group("/admin", auth.RequireAdmin())
	grp.GET("/config", h.GetSettings)
	grp.POST("/config", h.SaveSettings)
	grp.POST("/backup", h.Backup)
	grp.DELETE("/clear/:dataType", h.ClearData)
}

func (h *Handler) GetSettings(c echo.Context) error {
	cfg, err := h.svc.GetSettings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SaveSettings(c echo.Context) error {
	var cfg ClinicSettings
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveSettings(c.Request().Context(), &cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) Backup(c echo.Context) error {
	b, err := h.svc.Backup(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ClearData(c echo.Context) error {
	if err := h.svc.ClearData(c.Request().Context(), c.Param("dataType")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
