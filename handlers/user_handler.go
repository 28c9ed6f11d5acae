package handlers

import (
	"io"
	"strconv"

	"postboard/helper"
	"postboard/middleware"
	"postboard/models"
	"postboard/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService, Helper: &helper.HTTPHelper{}}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.CreateUser(middleware.Principal(c), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User created successfully!", user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.GetUser(middleware.Principal(c), uint(id))
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User loaded", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.UpdateUser(middleware.Principal(c), uint(id), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User updated successfully!", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.userService.DeleteUser(middleware.Principal(c), uint(id)); err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User deleted successfully!", h.Helper.EmptyJsonMap())
}

func (h *UserHandler) ToggleLock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	locked, err := h.userService.ToggleLock(middleware.Principal(c), uint(id))
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	status := "unlocked"
	if locked {
		status = "locked"
	}
	h.Helper.SendSuccess(c, "User "+status+" successfully!", gin.H{"locked": locked})
}

func (h *UserHandler) BulkAction(c *gin.Context) {
	var req models.BulkUserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	count, err := h.userService.BulkAction(middleware.Principal(c), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	actionText := "unlocked"
	if req.Action == "delete" {
		actionText = "deleted"
	}
	h.Helper.SendSuccess(c, strconv.Itoa(count)+" users "+actionText+" successfully!", gin.H{"count": count})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var params models.UserListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	users, total, err := h.userService.ListUsers(middleware.Principal(c), params)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Users loaded", gin.H{
		"users":  users,
		"paging": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.userService.Statistics(middleware.Principal(c))
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User statistics", stats)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.UpdateProfile(middleware.Principal(c), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated successfully!", user)
}

func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	file, err := c.FormFile("profile_image")
	if err != nil {
		h.Helper.SendBadRequest(c, "profile_image file required", h.Helper.EmptyJsonMap())
		return
	}

	src, err := file.Open()
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.SetProfileImage(middleware.Principal(c), data, file.Filename)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile image updated successfully!", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if err := h.userService.ChangePassword(middleware.Principal(c), req); err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Password changed successfully!", h.Helper.EmptyJsonMap())
}
