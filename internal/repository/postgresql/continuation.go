package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type continuationRepository struct {
	db *database.DB
}

func NewContinuationRepository(db *database.DB) continuation.Repository {
	return &continuationRepository{db: db}
}

// Record implements continuation.Repository.
func (r *continuationRepository) Record(ctx context.Context, point continuation.Point) (continuation.Point, error) {
	q := GetQuerier(ctx, r.db)

	if point.ID == "" {
		point.ID = uuid.NewString()
	}

	query := `
		INSERT INTO continuation_points (
			id, username, date, point_timestamp, kind, resolved, granted_overtime_minutes
		) VALUES (
			$1, $2, $3, $4, $5, false, 0
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		point.ID,
		point.Username,
		point.Date,
		point.Timestamp,
		point.Kind,
	).Scan(&point.CreatedAt)

	if err != nil {
		return continuation.Point{}, fmt.Errorf("failed to record continuation point: %w", err)
	}

	return point, nil
}

// ActivePoints implements continuation.Repository.
func (r *continuationRepository) ActivePoints(ctx context.Context, username string, date time.Time) ([]continuation.Point, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, date, point_timestamp, kind, resolved, resolved_by,
			   granted_overtime_minutes, created_at
		FROM continuation_points
		WHERE username = $1 AND date = $2 AND resolved = false
		ORDER BY point_timestamp ASC
	`

	rows, err := q.Query(ctx, query, username, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list continuation points: %w", err)
	}
	defer rows.Close()

	var points []continuation.Point
	for rows.Next() {
		var p continuation.Point
		if err := rows.Scan(
			&p.ID, &p.Username, &p.Date, &p.Timestamp, &p.Kind, &p.Resolved, &p.ResolvedBy,
			&p.GrantedOvertimeMinutes, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan continuation point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate continuation points: %w", err)
	}

	return points, nil
}

// ResolveAll implements continuation.Repository.
func (r *continuationRepository) ResolveAll(ctx context.Context, username string, date time.Time, resolvedBy string, grantedOvertimeMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE continuation_points
		SET resolved = true, resolved_by = $3, granted_overtime_minutes = $4
		WHERE username = $1 AND date = $2 AND resolved = false
	`

	if _, err := q.Exec(ctx, query, username, date, resolvedBy, grantedOvertimeMinutes); err != nil {
		return fmt.Errorf("failed to resolve continuation points: %w", err)
	}

	return nil
}
