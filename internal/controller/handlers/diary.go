package handlers

import (
	"net/http"
	"strconv"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fieldworks/diary-service/internal/service"
	"github.com/gin-gonic/gin"
)

type DiaryHandler struct {
	diary DiaryService
}

func NewDiaryHandler(diary DiaryService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

// GET /diary/entries?date=&engineerId=
func (h *DiaryHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	engineerID, _ := strconv.ParseInt(c.Query("engineerId"), 10, 64)

	entries, err := h.diary.List(c.Request.Context(), date, engineerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []*model.DiaryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GET /diary/call-log/:callId/assignments
func (h *DiaryHandler) Assignments(c *gin.Context) {
	callID, err := strconv.ParseInt(c.Param("callId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	entries, err := h.diary.ListForCall(c.Request.Context(), callID)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []*model.DiaryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GET /diary/check-conflict?engineer=&date=&startTime=&endTime=&excludeId=
func (h *DiaryHandler) CheckConflict(c *gin.Context) {
	engineerID, err := strconv.ParseInt(c.Query("engineer"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid engineer id"})
		return
	}
	excludeID, _ := strconv.ParseInt(c.Query("excludeId"), 10, 64)

	hasConflict, err := h.diary.CheckConflict(
		c.Request.Context(),
		engineerID,
		c.Query("date"),
		c.Query("startTime"),
		c.Query("endTime"),
		excludeID,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasConflict": hasConflict})
}

// POST /diary/entries/:userId
func (h *DiaryHandler) Create(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var in service.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.diary.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// PUT /diary/entries/:id
func (h *DiaryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var in service.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.diary.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /diary/entries/:id
func (h *DiaryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var in deleteRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.diary.Delete(c.Request.Context(), id, in.InitialEngineerID, in.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
