// Package grid implements the admin console's diary grid core: the gateway
// contract to the scheduling backend, the advisory conflict checker and the
// booking draft lifecycle the day grid runs on.
package grid

import (
	"context"

	"github.com/fieldworks/diary-service/internal/model"
)

// BookingPayload is the write body for create and update requests.
// InitialEngineerID names the call's designated engineer.
type BookingPayload struct {
	EngineerID        int64  `json:"engineerId"`
	SiteID            int64  `json:"siteId"`
	CallID            int64  `json:"callId"`
	InitialEngineerID int64  `json:"initialEngineerId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Notes             string `json:"notes"`
}

// ConflictQuery describes a proposed time range to test against existing
// bookings. ExcludeID carries the booking's own id when editing.
type ConflictQuery struct {
	EngineerID int64
	Date       string
	StartTime  string
	EndTime    string
	ExcludeID  int64
}

// Gateway is the persistence contract the grid requires from the backend.
// It is treated as an opaque, possibly failing remote service.
type Gateway interface {
	ListBookings(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error)
	ListBookingsForCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error)
	CheckConflict(ctx context.Context, q ConflictQuery) (bool, error)
	CreateBooking(ctx context.Context, userID int64, payload BookingPayload) (*model.DiaryEntry, error)
	UpdateBooking(ctx context.Context, id int64, payload BookingPayload) (*model.DiaryEntry, error)
	DeleteBooking(ctx context.Context, id, initialEngineerID, userID int64) error
}
