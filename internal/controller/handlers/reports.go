package handlers

import (
	"fmt"
	"net/http"

	"github.com/fieldworks/diary-service/internal/export"
	"github.com/fieldworks/diary-service/internal/render"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the rendered day grid and spreadsheet exports.
type ReportHandler struct {
	diary  DiaryService
	roster RosterService
}

func NewReportHandler(diary DiaryService, roster RosterService) *ReportHandler {
	return &ReportHandler{diary: diary, roster: roster}
}

// GET /diary/grid.png?date=
func (h *ReportHandler) GridImage(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	roster, err := h.roster.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.diary.List(c.Request.Context(), date, 0)
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := render.DayGrid(date, roster, entries)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /diary/export.xlsx?date=
func (h *ReportHandler) ExportWorkbook(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	roster, err := h.roster.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.diary.List(c.Request.Context(), date, 0)
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := export.DayWorkbookBytes(date, roster, entries)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="diary-%s.xlsx"`, date))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
