package handlers

import (
	"postboard/helper"
	"postboard/middleware"
	"postboard/models"
	"postboard/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	Helper           *helper.HTTPHelper
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, Helper: &helper.HTTPHelper{}}
}

// Dashboard serves the admin overview for admins and the personal
// overview for everyone else.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	actor := middleware.Principal(c)

	if actor.Role == models.RoleAdmin {
		dashboard, err := h.dashboardService.AdminDashboard(actor)
		if err != nil {
			h.Helper.SendErrorResponse(c, err)
			return
		}
		h.Helper.SendSuccess(c, "Dashboard loaded", dashboard)
		return
	}

	dashboard, err := h.dashboardService.UserDashboard(actor)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Dashboard loaded", dashboard)
}
