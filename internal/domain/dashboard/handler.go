package dashboard

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
	grp := api.Group("/dashboard", auth.RequirePrivilege(auth.PrivViewDashboard))
	grp.GET("/stats", h.Stats)
	grp.GET("/queue", h.Queue)
	grp.GET("/quick-actions", h.QuickActions)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Queue(c echo.Context) error {
	queue, err := h.svc.Queue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if queue == nil {
		queue = []*QueueEntry{}
	}
	return c.JSON(http.StatusOK, queue)
}

func (h *Handler) QuickActions(c echo.Context) error {
	user := auth.UserFromContext(c.Request().Context())
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, h.svc.QuickActions(user))
}
