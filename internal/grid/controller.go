package grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldworks/diary-service/internal/model"
	"go.uber.org/zap"
)

var (
	ErrConflict          = errors.New("the selected time overlaps another booking for this engineer")
	ErrInitialAssignment = errors.New("first assignment must be for the specified engineer")
	ErrSaveInProgress    = errors.New("a save is already in progress")
	ErrDraftInvalid      = errors.New("booking is incomplete")
)

// State is the grid's booking-in-progress state.
type State string

const (
	StateIdle             State = "idle"
	StateDrafting         State = "drafting"
	StateSaving           State = "saving"
	StateConfirmingDelete State = "confirming-delete"
)

// Notifier receives user-facing toast notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to the logger; headless callers use it in
// place of a real toast surface.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Success(msg string) { n.Logger.Info(msg) }
func (n LogNotifier) Error(msg string)   { n.Logger.Warn(msg) }

// CallContext identifies the service call a new booking is scheduled for,
// including its designated initial engineer.
type CallContext struct {
	SiteID            int64
	CallID            int64
	InitialEngineerID int64
}

// Draft is a booking being composed or edited. BookingID is zero until the
// backend has assigned one.
type Draft struct {
	BookingID         int64
	EngineerID        int64
	SiteID            int64
	CallID            int64
	InitialEngineerID int64
	Date              string
	StartTime         string
	EndTime           string
	Notes             string
}

// Controller coordinates the booking lifecycle for one calendar day across
// the engineer roster. It is driven from a single UI event loop and is not
// safe for concurrent use.
type Controller struct {
	gw       Gateway
	checker  *ConflictChecker
	notifier Notifier
	logger   *zap.Logger

	date     string
	roster   []*model.Engineer
	bookings []*model.DiaryEntry

	state State
	draft *Draft
}

func NewController(gw Gateway, notifier Notifier, logger *zap.Logger, date string, roster []*model.Engineer) *Controller {
	return &Controller{
		gw:       gw,
		checker:  NewConflictChecker(gw, logger),
		notifier: notifier,
		logger:   logger,
		date:     date,
		roster:   roster,
		state:    StateIdle,
	}
}

func (c *Controller) State() State                  { return c.state }
func (c *Controller) Draft() *Draft                 { return c.draft }
func (c *Controller) Bookings() []*model.DiaryEntry { return c.bookings }
func (c *Controller) Roster() []*model.Engineer     { return c.roster }
func (c *Controller) Date() string                  { return c.date }

// Load fetches the day's bookings for the whole roster. On a partial failure
// the grid keeps what was fetched so far, staying consistent and renderable.
func (c *Controller) Load(ctx context.Context) error {
	var fetched []*model.DiaryEntry
	for _, eng := range c.roster {
		entries, err := c.gw.ListBookings(ctx, c.date, eng.ID)
		if err != nil {
			c.bookings = fetched
			return fmt.Errorf("load bookings for engineer %d: %w", eng.ID, err)
		}
		fetched = append(fetched, entries...)
	}
	c.bookings = fetched
	return nil
}

// BookingAt looks up the booking occupying an engineer's slot, locally.
func (c *Controller) BookingAt(engineerID int64, slot string) *model.DiaryEntry {
	hour, err := model.ParseSlot(slot)
	if err != nil {
		return nil
	}
	for _, entry := range c.bookings {
		if entry.EngineerID != engineerID || entry.Date != c.date {
			continue
		}
		start, end, err := entry.Hours()
		if err != nil {
			continue
		}
		if model.Occupies(hour, start, end) {
			return entry
		}
	}
	return nil
}

// SelectSlot seeds a draft from a slot click: an empty slot starts a new
// one-hour booking, an occupied slot opens the existing booking for edit.
func (c *Controller) SelectSlot(engineerID int64, slot string, call CallContext) error {
	if c.state != StateIdle {
		return fmt.Errorf("cannot open a draft while %s", c.state)
	}

	hour, err := model.ParseSlot(slot)
	if err != nil {
		return err
	}

	if existing := c.BookingAt(engineerID, slot); existing != nil {
		c.draft = &Draft{
			BookingID:         existing.ID,
			EngineerID:        existing.EngineerID,
			SiteID:            existing.SiteID,
			CallID:            existing.CallID,
			InitialEngineerID: call.InitialEngineerID,
			Date:              existing.Date,
			StartTime:         existing.StartTime,
			EndTime:           existing.EndTime,
			Notes:             existing.Notes,
		}
		c.state = StateDrafting
		return nil
	}

	// Slots run 0:00..23:00 with no wraparound, so the last slot cannot hold
	// a one-hour booking.
	if hour+1 >= model.SlotsPerDay {
		return fmt.Errorf("no room for a booking starting at %s", slot)
	}

	c.draft = &Draft{
		EngineerID:        engineerID,
		SiteID:            call.SiteID,
		CallID:            call.CallID,
		InitialEngineerID: call.InitialEngineerID,
		Date:              c.date,
		StartTime:         model.FormatSlot(hour),
		EndTime:           model.FormatSlot(hour + 1),
	}
	c.state = StateDrafting
	return nil
}

// CancelDraft abandons the draft or a pending delete confirmation.
func (c *Controller) CancelDraft() {
	if c.state == StateDrafting || c.state == StateConfirmingDelete {
		c.state = StateIdle
		c.draft = nil
	}
}

// HasInitialAssignment re-derives whether the designated engineer already has
// a booking on the call, ignoring excludeBookingID (the draft's own booking
// when editing). Computed on demand, never cached.
func (c *Controller) HasInitialAssignment(ctx context.Context, callID, engineerID, excludeBookingID int64) (bool, error) {
	entries, err := c.gw.ListBookingsForCall(ctx, callID)
	if err != nil {
		return false, fmt.Errorf("list call assignments: %w", err)
	}
	for _, entry := range entries {
		if entry.EngineerID == engineerID && entry.ID != excludeBookingID {
			return true, nil
		}
	}
	return false, nil
}

func (c *Controller) validateDraft(d *Draft) error {
	if d.EngineerID == 0 || d.SiteID == 0 || d.CallID == 0 {
		return errors.New("engineer, site and call are required")
	}
	start, err := model.ParseSlot(d.StartTime)
	if err != nil {
		return err
	}
	end, err := model.ParseSlot(d.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return errors.New("end time must be after start time")
	}
	return nil
}

// Save runs the full save algorithm: local validation, the first-assignment
// rule, the advisory conflict check, then the create or update, re-fetching
// the day on success. A failed save keeps the draft so the user can retry.
func (c *Controller) Save(ctx context.Context, userID int64) error {
	if c.state == StateSaving {
		return ErrSaveInProgress
	}
	if c.state != StateDrafting {
		return fmt.Errorf("nothing to save while %s", c.state)
	}

	d := c.draft

	// Local validation first: a rejected draft must not produce any write.
	if err := c.validateDraft(d); err != nil {
		c.notifier.Error(err.Error())
		return fmt.Errorf("%w: %v", ErrDraftInvalid, err)
	}

	if d.InitialEngineerID != 0 && d.EngineerID != d.InitialEngineerID {
		has, err := c.HasInitialAssignment(ctx, d.CallID, d.InitialEngineerID, d.BookingID)
		if err != nil {
			c.notifier.Error(err.Error())
			return err
		}
		if !has {
			c.notifier.Error("First assignment must be for the specified engineer")
			return ErrInitialAssignment
		}
	}

	c.state = StateSaving

	if c.checker.HasConflict(ctx, ConflictQuery{
		EngineerID: d.EngineerID,
		Date:       d.Date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		ExcludeID:  d.BookingID,
	}) {
		c.state = StateDrafting
		c.notifier.Error(ErrConflict.Error())
		return ErrConflict
	}

	payload := BookingPayload{
		EngineerID:        d.EngineerID,
		SiteID:            d.SiteID,
		CallID:            d.CallID,
		InitialEngineerID: d.InitialEngineerID,
		Date:              d.Date,
		StartTime:         d.StartTime,
		EndTime:           d.EndTime,
		Notes:             d.Notes,
	}

	var err error
	if d.BookingID == 0 {
		_, err = c.gw.CreateBooking(ctx, userID, payload)
	} else {
		_, err = c.gw.UpdateBooking(ctx, d.BookingID, payload)
	}
	if err != nil {
		// Preserve the draft so the user can correct and retry.
		c.state = StateDrafting
		c.notifier.Error(err.Error())
		return err
	}

	c.state = StateIdle
	c.draft = nil
	c.notifier.Success("Booking saved")

	// Reconcile with server-computed fields.
	if err := c.Load(ctx); err != nil {
		c.notifier.Error(err.Error())
	}
	return nil
}

// RequestDelete opens the delete confirmation for an existing booking.
func (c *Controller) RequestDelete() error {
	if c.state != StateDrafting || c.draft == nil || c.draft.BookingID == 0 {
		return errors.New("no saved booking selected for deletion")
	}
	c.state = StateConfirmingDelete
	return nil
}

// ConfirmDelete issues the delete. On failure the confirmation stays open.
func (c *Controller) ConfirmDelete(ctx context.Context, userID int64) error {
	if c.state != StateConfirmingDelete {
		return fmt.Errorf("no delete pending while %s", c.state)
	}

	d := c.draft
	if err := c.gw.DeleteBooking(ctx, d.BookingID, d.InitialEngineerID, userID); err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	c.state = StateIdle
	c.draft = nil
	c.notifier.Success("Booking deleted")

	if err := c.Load(ctx); err != nil {
		c.notifier.Error(err.Error())
	}
	return nil
}
