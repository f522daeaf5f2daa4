package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldworks/diary-service/internal/events"
	"github.com/fieldworks/diary-service/internal/metrics"
	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fieldworks/diary-service/internal/notify"
	"github.com/fieldworks/diary-service/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("booking not found")
	ErrConflict          = errors.New("booking overlaps an existing booking for this engineer")
	ErrInitialAssignment = errors.New("first assignment must be for the specified engineer")
)

// BookingStore is the persistence surface the diary needs for entries.
type BookingStore interface {
	Create(ctx context.Context, entry *model.DiaryEntry) error
	Update(ctx context.Context, entry *model.DiaryEntry) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.DiaryEntry, error)
	ListByDate(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error)
	ListByCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error)
	HasOverlap(ctx context.Context, engineerID int64, date string, startHour, endHour int, excludeID int64) (bool, error)
	ExistsForCall(ctx context.Context, callID, engineerID int64) (bool, error)
}

// EngineerStore is the read-only user directory surface.
type EngineerStore interface {
	ListRoster(ctx context.Context) ([]*model.Engineer, error)
	GetByID(ctx context.Context, id int64) (*model.Engineer, error)
}

// BookingInput is the write payload for create and update operations.
// InitialEngineerID names the call's designated engineer; the first booking
// on the call must be theirs.
type BookingInput struct {
	EngineerID        int64  `json:"engineerId"`
	SiteID            int64  `json:"siteId"`
	CallID            int64  `json:"callId"`
	InitialEngineerID int64  `json:"initialEngineerId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Notes             string `json:"notes"`
}

type DiaryService struct {
	bookings  BookingStore
	engineers EngineerStore
	publisher *events.Publisher
	notifier  *notify.TelegramNotifier
	logger    *zap.Logger
}

func NewDiaryService(
	bookings BookingStore,
	engineers EngineerStore,
	publisher *events.Publisher,
	notifier *notify.TelegramNotifier,
	logger *zap.Logger,
) *DiaryService {
	return &DiaryService{
		bookings:  bookings,
		engineers: engineers,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// validate checks the payload shape and returns the parsed hour bounds.
func validate(in BookingInput) (startHour, endHour int, err error) {
	if in.EngineerID == 0 {
		return 0, 0, fmt.Errorf("%w: engineerId is required", ErrValidation)
	}
	if in.SiteID == 0 {
		return 0, 0, fmt.Errorf("%w: siteId is required", ErrValidation)
	}
	if in.CallID == 0 {
		return 0, 0, fmt.Errorf("%w: callId is required", ErrValidation)
	}
	if _, err := model.ParseDate(in.Date); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	startHour, err = model.ParseSlot(in.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	endHour, err = model.ParseSlot(in.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if endHour <= startHour {
		return 0, 0, fmt.Errorf("%w: endTime must be after startTime", ErrValidation)
	}
	return startHour, endHour, nil
}

// checkEngineer verifies the assignee exists in the directory and carries the
// engineer role flag.
func (s *DiaryService) checkEngineer(ctx context.Context, id int64) error {
	eng, err := s.engineers.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get engineer: %w", err)
	}
	if eng == nil || !eng.IsEngineer {
		return fmt.Errorf("%w: engineer %d is not in the roster", ErrValidation, id)
	}
	return nil
}

// checkInitialAssignment enforces the first-assignment rule: until the call's
// designated engineer has a booking, no other engineer may be assigned.
// The predicate is re-derived from the store on every write.
func (s *DiaryService) checkInitialAssignment(ctx context.Context, in BookingInput) error {
	if in.InitialEngineerID == 0 || in.EngineerID == in.InitialEngineerID {
		return nil
	}
	exists, err := s.bookings.ExistsForCall(ctx, in.CallID, in.InitialEngineerID)
	if err != nil {
		return fmt.Errorf("check call assignments: %w", err)
	}
	if !exists {
		metrics.InitialAssignmentRejectionsTotal.Inc()
		return ErrInitialAssignment
	}
	return nil
}

// Create validates and persists a new diary entry.
func (s *DiaryService) Create(ctx context.Context, userID int64, in BookingInput) (*model.DiaryEntry, error) {
	if _, _, err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkEngineer(ctx, in.EngineerID); err != nil {
		return nil, err
	}
	if err := s.checkInitialAssignment(ctx, in); err != nil {
		return nil, err
	}

	entry := &model.DiaryEntry{
		EngineerID: in.EngineerID,
		SiteID:     in.SiteID,
		CallID:     in.CallID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Notes:      in.Notes,
		CreatedBy:  userID,
	}

	if err := s.bookings.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			metrics.ConflictsDetectedTotal.Inc()
			return nil, ErrConflict
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	s.publisher.BookingCreated(ctx, entry)
	s.notifier.BookingCreated(ctx, entry, s.engineerName(ctx, entry.EngineerID))

	s.logger.Info("Booking created",
		zap.Int64("booking_id", entry.ID),
		zap.Int64("engineer_id", entry.EngineerID),
		zap.Int64("call_id", entry.CallID),
		zap.String("date", entry.Date),
		zap.String("start", entry.StartTime),
		zap.String("end", entry.EndTime),
	)

	return entry, nil
}

// Update rewrites an existing entry under the same rules as Create.
func (s *DiaryService) Update(ctx context.Context, id int64, in BookingInput) (*model.DiaryEntry, error) {
	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if _, _, err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkEngineer(ctx, in.EngineerID); err != nil {
		return nil, err
	}
	if err := s.checkInitialAssignment(ctx, in); err != nil {
		return nil, err
	}

	entry := &model.DiaryEntry{
		ID:         id,
		EngineerID: in.EngineerID,
		SiteID:     in.SiteID,
		CallID:     in.CallID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Notes:      in.Notes,
	}

	if err := s.bookings.Update(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			metrics.ConflictsDetectedTotal.Inc()
			return nil, ErrConflict
		}
		return nil, err
	}

	metrics.BookingsUpdatedTotal.Inc()
	s.publisher.BookingUpdated(ctx, entry)
	s.notifier.BookingUpdated(ctx, entry, s.engineerName(ctx, entry.EngineerID))

	s.logger.Info("Booking updated",
		zap.Int64("booking_id", entry.ID),
		zap.Int64("engineer_id", entry.EngineerID),
		zap.String("date", entry.Date),
	)

	return entry, nil
}

// Delete removes an entry. initialEngineerID and userID come from the caller
// for the audit trail; whether the call's initial assignment still exists is
// recomputed by clients afterwards, never stored.
func (s *DiaryService) Delete(ctx context.Context, id, initialEngineerID, userID int64) error {
	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	metrics.BookingsDeletedTotal.Inc()
	s.publisher.BookingDeleted(ctx, id, userID)
	s.notifier.BookingDeleted(ctx, id)

	s.logger.Info("Booking deleted",
		zap.Int64("booking_id", id),
		zap.Int64("initial_engineer_id", initialEngineerID),
		zap.Int64("user_id", userID),
	)

	return nil
}

// List returns a day's entries; engineerID 0 means the whole roster.
func (s *DiaryService) List(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.bookings.ListByDate(ctx, date, engineerID)
}

// ListForCall returns every booking tied to a call across engineers and dates.
func (s *DiaryService) ListForCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error) {
	return s.bookings.ListByCall(ctx, callID)
}

// CheckConflict answers the advisory pre-save overlap check.
func (s *DiaryService) CheckConflict(ctx context.Context, engineerID int64, date, startTime, endTime string, excludeID int64) (bool, error) {
	if _, err := model.ParseDate(date); err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	startHour, err := model.ParseSlot(startTime)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	endHour, err := model.ParseSlot(endTime)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.bookings.HasOverlap(ctx, engineerID, date, startHour, endHour, excludeID)
}

func (s *DiaryService) engineerName(ctx context.Context, id int64) string {
	eng, err := s.engineers.GetByID(ctx, id)
	if err != nil || eng == nil {
		return fmt.Sprintf("engineer #%d", id)
	}
	return eng.Name
}
