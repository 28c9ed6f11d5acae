package handlers

import (
	"fmt"
	"time"

	"postboard/helper"
	"postboard/middleware"
	"postboard/models"
	"postboard/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportLimit caps how many rows a single export pulls.
const exportLimit = 10000

type DataHandler struct {
	postService services.PostService
	Helper      *helper.HTTPHelper
}

func NewDataHandler(postService services.PostService) *DataHandler {
	return &DataHandler{postService: postService, Helper: &helper.HTTPHelper{}}
}

// ExportPosts writes the caller's visible posts as an XLSX download. The
// same query filters as the list endpoint apply; regular users only ever
// export their own posts. Errors use the JSON envelope, the success path
// is the file itself.
func (h *DataHandler) ExportPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Page = 1
	params.Limit = exportLimit

	posts, _, err := h.postService.ListPosts(middleware.Principal(c), params)
	if err != nil {
		h.Helper.SendErrorResponse(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Posts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		h.Helper.SendErrorResponse(c, models.ErrorInternalServer{Message: "Failed to create worksheet"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Title", "Category", "Status", "Views", "Author", "Created At"}
	for i, name := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, name)
	}

	for idx, p := range posts {
		row := idx + 2

		statusText := "draft"
		if p.IsPublished() {
			statusText = "published"
		}

		author := ""
		if p.Creator != nil {
			author = p.Creator.Name
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), statusText)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Views)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), author)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.CreatedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 10)
	f.SetColWidth(sheetName, "F", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 18)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Helper.SendErrorResponse(c, models.ErrorInternalServer{Message: "Failed to write export"})
	}
}
