package handlers

import (
	"strconv"

	"postboard/helper"
	"postboard/middleware"
	"postboard/models"
	"postboard/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService services.PostService
	Helper      *helper.HTTPHelper
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService, Helper: &helper.HTTPHelper{}}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	post, err := h.postService.CreatePost(middleware.Principal(c), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post created successfully!", post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	post, err := h.postService.GetPost(middleware.Principal(c), uint(id))
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post loaded", post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	post, err := h.postService.UpdatePost(middleware.Principal(c), uint(id), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post updated successfully!", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.postService.DeletePost(middleware.Principal(c), uint(id)); err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted successfully!", h.Helper.EmptyJsonMap())
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	posts, total, err := h.postService.ListPosts(middleware.Principal(c), params)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts loaded", gin.H{
		"posts":  posts,
		"paging": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

func (h *PostHandler) BulkUpdateStatus(c *gin.Context) {
	var req models.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	count, err := h.postService.BulkUpdateStatus(middleware.Principal(c), req)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, strconv.FormatInt(count, 10)+" posts updated successfully!", gin.H{"updated_count": count})
}

func (h *PostHandler) Statistics(c *gin.Context) {
	stats, err := h.postService.Statistics(middleware.Principal(c))
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post statistics", stats)
}
