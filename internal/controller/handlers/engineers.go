package handlers

import (
	"net/http"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/gin-gonic/gin"
)

type EngineerHandler struct {
	roster RosterService
}

func NewEngineerHandler(roster RosterService) *EngineerHandler {
	return &EngineerHandler{roster: roster}
}

// GET /engineers
func (h *EngineerHandler) List(c *gin.Context) {
	engineers, err := h.roster.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if engineers == nil {
		engineers = []*model.Engineer{}
	}
	c.JSON(http.StatusOK, engineers)
}
