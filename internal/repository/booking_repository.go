package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOverlap is returned when a write would produce two overlapping bookings
// for the same engineer and date.
var ErrOverlap = errors.New("overlapping booking")

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const entryColumns = `id, engineer_id, site_id, call_id, date, start_hour, end_hour, notes, created_by, created_at, updated_at`

func scanEntry(row pgx.Row) (*model.DiaryEntry, error) {
	var (
		entry              model.DiaryEntry
		date               time.Time
		startHour, endHour int
	)
	err := row.Scan(
		&entry.ID,
		&entry.EngineerID,
		&entry.SiteID,
		&entry.CallID,
		&date,
		&startHour,
		&endHour,
		&entry.Notes,
		&entry.CreatedBy,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Date = date.Format(model.DateLayout)
	entry.StartTime = model.FormatSlot(startHour)
	entry.EndTime = model.FormatSlot(endHour)
	return &entry, nil
}

// lockOverlapping locks any candidate rows that would overlap the proposed
// interval, so concurrent writers serialize on them. Returns ErrOverlap when
// at least one exists.
func lockOverlapping(ctx context.Context, tx pgx.Tx, engineerID int64, date string, startHour, endHour int, excludeID int64) error {
	query := `
		SELECT id
		FROM diary_entries
		WHERE engineer_id = $1
		  AND date = $2
		  AND id <> $3
		  AND start_hour < $5
		  AND end_hour > $4
		LIMIT 1
		FOR UPDATE
	`

	var id int64
	err := tx.QueryRow(ctx, query, engineerID, date, excludeID, startHour, endHour).Scan(&id)
	if err == nil {
		return ErrOverlap
	}
	if err == pgx.ErrNoRows {
		return nil
	}
	return fmt.Errorf("lock overlapping entries: %w", err)
}

// Create inserts a new diary entry, re-checking the overlap invariant inside
// the transaction so the advisory client-side check cannot race another writer.
func (r *BookingRepository) Create(ctx context.Context, entry *model.DiaryEntry) error {
	startHour, endHour, err := entry.Hours()
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOverlapping(ctx, tx, entry.EngineerID, entry.Date, startHour, endHour, 0); err != nil {
		return err
	}

	query := `
		INSERT INTO diary_entries (engineer_id, site_id, call_id, date, start_hour, end_hour, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		entry.EngineerID,
		entry.SiteID,
		entry.CallID,
		entry.Date,
		startHour,
		endHour,
		entry.Notes,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Update rewrites an existing entry under the same in-transaction overlap
// guard, excluding the entry itself from the scan.
func (r *BookingRepository) Update(ctx context.Context, entry *model.DiaryEntry) error {
	startHour, endHour, err := entry.Hours()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOverlapping(ctx, tx, entry.EngineerID, entry.Date, startHour, endHour, entry.ID); err != nil {
		return err
	}

	query := `
		UPDATE diary_entries
		SET engineer_id = $1, site_id = $2, call_id = $3, date = $4,
		    start_hour = $5, end_hour = $6, notes = $7, updated_at = now()
		WHERE id = $8
		RETURNING created_by, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		entry.EngineerID,
		entry.SiteID,
		entry.CallID,
		entry.Date,
		startHour,
		endHour,
		entry.Notes,
		entry.ID,
	).Scan(&entry.CreatedBy, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("entry not found")
		}
		return fmt.Errorf("update entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID fetches one entry, returning nil when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.DiaryEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM diary_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry by id: %w", err)
	}

	return entry, nil
}

// ListByDate returns a day's entries ordered by start hour. A zero engineerID
// means the whole roster.
func (r *BookingRepository) ListByDate(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM diary_entries
		WHERE date = $1
		  AND ($2 = 0 OR engineer_id = $2)
		ORDER BY engineer_id, start_hour
	`

	rows, err := r.pool.Query(ctx, query, date, engineerID)
	if err != nil {
		return nil, fmt.Errorf("list entries by date: %w", err)
	}
	defer rows.Close()

	var entries []*model.DiaryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListByCall returns every entry tied to a call, across engineers and dates.
func (r *BookingRepository) ListByCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM diary_entries
		WHERE call_id = $1
		ORDER BY date, start_hour
	`

	rows, err := r.pool.Query(ctx, query, callID)
	if err != nil {
		return nil, fmt.Errorf("list entries by call: %w", err)
	}
	defer rows.Close()

	var entries []*model.DiaryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// HasOverlap answers the advisory conflict check: does any entry for this
// engineer and date intersect [startHour,endHour), excluding excludeID.
func (r *BookingRepository) HasOverlap(ctx context.Context, engineerID int64, date string, startHour, endHour int, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM diary_entries
			WHERE engineer_id = $1
			  AND date = $2
			  AND id <> $3
			  AND start_hour < $5
			  AND end_hour > $4
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, engineerID, date, excludeID, startHour, endHour).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}

	return exists, nil
}

// ExistsForCall reports whether the engineer has any entry on the call.
// The initial-assignment rule is derived from this on demand, never cached.
func (r *BookingRepository) ExistsForCall(ctx context.Context, callID, engineerID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM diary_entries WHERE call_id = $1 AND engineer_id = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, callID, engineerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check call assignment: %w", err)
	}

	return exists, nil
}

// Delete removes an entry.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM diary_entries WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry not found")
	}

	return nil
}
