package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fieldworks/diary-service/internal/service"
	"github.com/gin-gonic/gin"
)

// DiaryService is the surface the diary handlers need.
type DiaryService interface {
	List(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error)
	ListForCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error)
	CheckConflict(ctx context.Context, engineerID int64, date, startTime, endTime string, excludeID int64) (bool, error)
	Create(ctx context.Context, userID int64, in service.BookingInput) (*model.DiaryEntry, error)
	Update(ctx context.Context, id int64, in service.BookingInput) (*model.DiaryEntry, error)
	Delete(ctx context.Context, id, initialEngineerID, userID int64) error
}

// RosterService is the surface the engineer handlers need.
type RosterService interface {
	List(ctx context.Context) ([]*model.Engineer, error)
}

type deleteRequest struct {
	InitialEngineerID int64 `json:"initialEngineerId"`
	UserID            int64 `json:"userId"`
}

// writeError maps service errors onto HTTP statuses. The message is the
// user-visible toast text, surfaced verbatim by clients.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInitialAssignment):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
