package service_test

import (
	"context"
	"testing"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fieldworks/diary-service/internal/repository"
	"github.com/fieldworks/diary-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookingStore struct {
	entries map[int64]*model.DiaryEntry
	nextID  int64

	createErr error
	updateErr error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{entries: make(map[int64]*model.DiaryEntry), nextID: 1}
}

func (s *fakeBookingStore) seed(e *model.DiaryEntry) *model.DiaryEntry {
	e.ID = s.nextID
	s.nextID++
	s.entries[e.ID] = e
	return e
}

func (s *fakeBookingStore) Create(_ context.Context, entry *model.DiaryEntry) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.seed(entry)
	return nil
}

func (s *fakeBookingStore) Update(_ context.Context, entry *model.DiaryEntry) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.entries[entry.ID] = entry
	return nil
}

func (s *fakeBookingStore) Delete(_ context.Context, id int64) error {
	delete(s.entries, id)
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id int64) (*model.DiaryEntry, error) {
	return s.entries[id], nil
}

func (s *fakeBookingStore) ListByDate(_ context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error) {
	var out []*model.DiaryEntry
	for _, e := range s.entries {
		if e.Date == date && (engineerID == 0 || e.EngineerID == engineerID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListByCall(_ context.Context, callID int64) ([]*model.DiaryEntry, error) {
	var out []*model.DiaryEntry
	for _, e := range s.entries {
		if e.CallID == callID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) HasOverlap(_ context.Context, engineerID int64, date string, startHour, endHour int, excludeID int64) (bool, error) {
	for _, e := range s.entries {
		if e.ID == excludeID || e.EngineerID != engineerID || e.Date != date {
			continue
		}
		start, end, err := e.Hours()
		if err != nil {
			continue
		}
		if model.Overlaps(startHour, endHour, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBookingStore) ExistsForCall(_ context.Context, callID, engineerID int64) (bool, error) {
	for _, e := range s.entries {
		if e.CallID == callID && e.EngineerID == engineerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeEngineerStore struct {
	engineers map[int64]*model.Engineer
}

func newFakeEngineerStore(engineers ...*model.Engineer) *fakeEngineerStore {
	s := &fakeEngineerStore{engineers: make(map[int64]*model.Engineer)}
	for _, e := range engineers {
		s.engineers[e.ID] = e
	}
	return s
}

func (s *fakeEngineerStore) ListRoster(_ context.Context) ([]*model.Engineer, error) {
	var out []*model.Engineer
	for _, e := range s.engineers {
		if e.IsEngineer {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEngineerStore) GetByID(_ context.Context, id int64) (*model.Engineer, error) {
	return s.engineers[id], nil
}

func newService(bookings *fakeBookingStore, engineers *fakeEngineerStore) *service.DiaryService {
	return service.NewDiaryService(bookings, engineers, nil, nil, zap.NewNop())
}

func validInput() service.BookingInput {
	return service.BookingInput{
		EngineerID:        1,
		SiteID:            5,
		CallID:            7,
		InitialEngineerID: 1,
		Date:              "2025-03-10",
		StartTime:         "9:00",
		EndTime:           "11:00",
	}
}

func TestCreate_PersistsValidBooking(t *testing.T) {
	store := newFakeBookingStore()
	svc := newService(store, newFakeEngineerStore(&model.Engineer{ID: 1, Name: "A. Keller", IsEngineer: true}))

	entry, err := svc.Create(context.Background(), 99, validInput())
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, int64(99), entry.CreatedBy)
	assert.Len(t, store.entries, 1)
}

func TestCreate_ValidationFailures(t *testing.T) {
	engineers := newFakeEngineerStore(&model.Engineer{ID: 1, IsEngineer: true})

	tests := map[string]func(*service.BookingInput){
		"missing_engineer": func(in *service.BookingInput) { in.EngineerID = 0 },
		"missing_site":     func(in *service.BookingInput) { in.SiteID = 0 },
		"missing_call":     func(in *service.BookingInput) { in.CallID = 0 },
		"bad_date":         func(in *service.BookingInput) { in.Date = "10/03/2025" },
		"bad_start":        func(in *service.BookingInput) { in.StartTime = "9:30" },
		"bad_end":          func(in *service.BookingInput) { in.EndTime = "25:00" },
		"end_before_start": func(in *service.BookingInput) { in.StartTime = "11:00"; in.EndTime = "9:00" },
		"zero_length":      func(in *service.BookingInput) { in.EndTime = in.StartTime },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			store := newFakeBookingStore()
			svc := newService(store, engineers)

			in := validInput()
			mutate(&in)

			_, err := svc.Create(context.Background(), 99, in)
			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Empty(t, store.entries, "rejected input must not be persisted")
		})
	}
}

func TestCreate_RejectsUnknownEngineer(t *testing.T) {
	svc := newService(newFakeBookingStore(), newFakeEngineerStore())

	in := validInput()
	_, err := svc.Create(context.Background(), 99, in)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreate_RejectsNonEngineerUser(t *testing.T) {
	svc := newService(newFakeBookingStore(), newFakeEngineerStore(&model.Engineer{ID: 1, Name: "Dispatcher", IsEngineer: false}))

	_, err := svc.Create(context.Background(), 99, validInput())
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreate_OverlapBecomesConflict(t *testing.T) {
	store := newFakeBookingStore()
	store.createErr = repository.ErrOverlap
	svc := newService(store, newFakeEngineerStore(&model.Engineer{ID: 1, IsEngineer: true}))

	_, err := svc.Create(context.Background(), 99, validInput())
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreate_InitialAssignmentRule(t *testing.T) {
	engineers := newFakeEngineerStore(
		&model.Engineer{ID: 1, IsEngineer: true},
		&model.Engineer{ID: 2, IsEngineer: true},
	)

	t.Run("other_engineer_blocked_first", func(t *testing.T) {
		store := newFakeBookingStore()
		svc := newService(store, engineers)

		in := validInput()
		in.EngineerID = 2 // designated engineer is 1
		_, err := svc.Create(context.Background(), 99, in)
		assert.ErrorIs(t, err, service.ErrInitialAssignment)
		assert.Empty(t, store.entries)
	})

	t.Run("allowed_after_designated_engineer_booked", func(t *testing.T) {
		store := newFakeBookingStore()
		store.seed(&model.DiaryEntry{
			EngineerID: 1, CallID: 7, Date: "2025-03-10", StartTime: "8:00", EndTime: "9:00",
		})
		svc := newService(store, engineers)

		in := validInput()
		in.EngineerID = 2
		_, err := svc.Create(context.Background(), 99, in)
		assert.NoError(t, err)
	})

	t.Run("skipped_without_designated_engineer", func(t *testing.T) {
		store := newFakeBookingStore()
		svc := newService(store, engineers)

		in := validInput()
		in.EngineerID = 2
		in.InitialEngineerID = 0
		_, err := svc.Create(context.Background(), 99, in)
		assert.NoError(t, err)
	})
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService(newFakeBookingStore(), newFakeEngineerStore(&model.Engineer{ID: 1, IsEngineer: true}))

	_, err := svc.Update(context.Background(), 404, validInput())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdate_RewritesEntry(t *testing.T) {
	store := newFakeBookingStore()
	existing := store.seed(&model.DiaryEntry{
		EngineerID: 1, SiteID: 5, CallID: 7, Date: "2025-03-10", StartTime: "9:00", EndTime: "10:00",
	})
	svc := newService(store, newFakeEngineerStore(&model.Engineer{ID: 1, IsEngineer: true}))

	in := validInput()
	in.EndTime = "12:00"
	entry, err := svc.Update(context.Background(), existing.ID, in)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, entry.ID)
	assert.Equal(t, "12:00", store.entries[existing.ID].EndTime)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newService(newFakeBookingStore(), newFakeEngineerStore())

	err := svc.Delete(context.Background(), 404, 1, 99)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDelete_RemovesEntry(t *testing.T) {
	store := newFakeBookingStore()
	existing := store.seed(&model.DiaryEntry{
		EngineerID: 1, CallID: 7, Date: "2025-03-10", StartTime: "9:00", EndTime: "10:00",
	})
	svc := newService(store, newFakeEngineerStore())

	require.NoError(t, svc.Delete(context.Background(), existing.ID, 1, 99))
	assert.Empty(t, store.entries)
}

func TestList_RequiresValidDate(t *testing.T) {
	svc := newService(newFakeBookingStore(), newFakeEngineerStore())

	_, err := svc.List(context.Background(), "tomorrow", 0)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCheckConflict(t *testing.T) {
	store := newFakeBookingStore()
	own := store.seed(&model.DiaryEntry{
		EngineerID: 1, CallID: 7, Date: "2025-03-10", StartTime: "9:00", EndTime: "11:00",
	})
	svc := newService(store, newFakeEngineerStore())

	has, err := svc.CheckConflict(context.Background(), 1, "2025-03-10", "10:00", "12:00", 0)
	require.NoError(t, err)
	assert.True(t, has)

	// Touching endpoints do not conflict.
	has, err = svc.CheckConflict(context.Background(), 1, "2025-03-10", "11:00", "12:00", 0)
	require.NoError(t, err)
	assert.False(t, has)

	// The booking being edited is excluded from the scan.
	has, err = svc.CheckConflict(context.Background(), 1, "2025-03-10", "10:00", "12:00", own.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.CheckConflict(context.Background(), 1, "2025-03-10", "9:30", "12:00", 0)
	assert.ErrorIs(t, err, service.ErrValidation)
}
