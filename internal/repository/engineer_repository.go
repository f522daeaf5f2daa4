package repository

import (
	"context"
	"fmt"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EngineerRepository struct {
	pool *pgxpool.Pool
}

func NewEngineerRepository(pool *pgxpool.Pool) *EngineerRepository {
	return &EngineerRepository{pool: pool}
}

// ListRoster returns the user directory filtered to the engineer role flag.
func (r *EngineerRepository) ListRoster(ctx context.Context) ([]*model.Engineer, error) {
	query := `
		SELECT id, name, email, is_engineer, created_at
		FROM users
		WHERE is_engineer = true
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	var engineers []*model.Engineer
	for rows.Next() {
		var eng model.Engineer
		err := rows.Scan(
			&eng.ID,
			&eng.Name,
			&eng.Email,
			&eng.IsEngineer,
			&eng.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan engineer: %w", err)
		}
		engineers = append(engineers, &eng)
	}

	return engineers, nil
}

// GetByID fetches one engineer, returning nil when it does not exist.
func (r *EngineerRepository) GetByID(ctx context.Context, id int64) (*model.Engineer, error) {
	query := `
		SELECT id, name, email, is_engineer, created_at
		FROM users
		WHERE id = $1
	`

	var eng model.Engineer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&eng.ID,
		&eng.Name,
		&eng.Email,
		&eng.IsEngineer,
		&eng.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get engineer by id: %w", err)
	}

	return &eng, nil
}
