package grid_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldworks/diary-service/internal/grid"
	"github.com/fieldworks/diary-service/internal/model"
)

// fakeGateway is an in-memory Gateway with injectable failures and call
// counters for asserting that rejected drafts never reach the backend.
type fakeGateway struct {
	entries map[int64]*model.DiaryEntry
	nextID  int64

	listErr    error
	listErrFor int64 // fail ListBookings only for this engineer when set
	checkErr   error
	createErr  error
	updateErr  error
	deleteErr  error

	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{entries: make(map[int64]*model.DiaryEntry), nextID: 1}
}

func (g *fakeGateway) seed(e *model.DiaryEntry) *model.DiaryEntry {
	e.ID = g.nextID
	g.nextID++
	g.entries[e.ID] = e
	return e
}

func (g *fakeGateway) ListBookings(_ context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	if g.listErrFor != 0 && g.listErrFor == engineerID {
		return nil, fmt.Errorf("list failed for engineer %d", engineerID)
	}
	var out []*model.DiaryEntry
	for _, e := range g.entries {
		if e.Date == date && (engineerID == 0 || e.EngineerID == engineerID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListBookingsForCall(_ context.Context, callID int64) ([]*model.DiaryEntry, error) {
	var out []*model.DiaryEntry
	for _, e := range g.entries {
		if e.CallID == callID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (g *fakeGateway) CheckConflict(_ context.Context, q grid.ConflictQuery) (bool, error) {
	if g.checkErr != nil {
		return false, g.checkErr
	}
	candidate := &model.DiaryEntry{
		EngineerID: q.EngineerID,
		Date:       q.Date,
		StartTime:  q.StartTime,
		EndTime:    q.EndTime,
	}
	for _, e := range g.entries {
		if e.ID != q.ExcludeID && candidate.OverlapsEntry(e) {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGateway) CreateBooking(_ context.Context, userID int64, p grid.BookingPayload) (*model.DiaryEntry, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	entry := &model.DiaryEntry{
		EngineerID: p.EngineerID,
		SiteID:     p.SiteID,
		CallID:     p.CallID,
		Date:       p.Date,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Notes:      p.Notes,
		CreatedBy:  userID,
	}
	return g.seed(entry), nil
}

func (g *fakeGateway) UpdateBooking(_ context.Context, id int64, p grid.BookingPayload) (*model.DiaryEntry, error) {
	g.updateCalls++
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	existing, ok := g.entries[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	existing.EngineerID = p.EngineerID
	existing.SiteID = p.SiteID
	existing.CallID = p.CallID
	existing.Date = p.Date
	existing.StartTime = p.StartTime
	existing.EndTime = p.EndTime
	existing.Notes = p.Notes
	return existing, nil
}

func (g *fakeGateway) DeleteBooking(_ context.Context, id, _, _ int64) error {
	g.deleteCalls++
	if g.deleteErr != nil {
		return g.deleteErr
	}
	if _, ok := g.entries[id]; !ok {
		return errors.New("booking not found")
	}
	delete(g.entries, id)
	return nil
}

// recordingNotifier captures toast notifications.
type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }
