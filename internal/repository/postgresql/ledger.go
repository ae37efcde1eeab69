package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/ledger"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.Repository {
	return &ledgerRepository{db: db}
}

const ledgerColumns = `id, user_id, username, date, day_start_time, day_end_time,
	   total_worked_minutes, final_worked_minutes, overtime_minutes,
	   temporary_stop_count, total_temporary_stop_minutes, lunch_break_deducted,
	   sync_status, created_at, updated_at`

func scanLedgerEntry(row pgx.Row) (ledger.Entry, error) {
	var e ledger.Entry
	err := row.Scan(
		&e.ID, &e.UserID, &e.Username, &e.Date, &e.DayStartTime, &e.DayEndTime,
		&e.TotalWorkedMinutes, &e.FinalWorkedMinutes, &e.OvertimeMinutes,
		&e.TemporaryStopCount, &e.TotalTemporaryStopMinutes, &e.LunchBreakDeducted,
		&e.SyncStatus, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Upsert implements ledger.Repository. The (username, date) key keeps exactly
// one entry per work day; re-running a resolution replaces the totals instead
// of duplicating the row.
func (r *ledgerRepository) Upsert(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO work_time_ledger (
			id, user_id, username, date, day_start_time, day_end_time,
			total_worked_minutes, final_worked_minutes, overtime_minutes,
			temporary_stop_count, total_temporary_stop_minutes, lunch_break_deducted,
			sync_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (username, date) DO UPDATE SET
			day_start_time = EXCLUDED.day_start_time,
			day_end_time = EXCLUDED.day_end_time,
			total_worked_minutes = EXCLUDED.total_worked_minutes,
			final_worked_minutes = EXCLUDED.final_worked_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			temporary_stop_count = EXCLUDED.temporary_stop_count,
			total_temporary_stop_minutes = EXCLUDED.total_temporary_stop_minutes,
			lunch_break_deducted = EXCLUDED.lunch_break_deducted,
			sync_status = EXCLUDED.sync_status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Username,
		entry.Date,
		entry.DayStartTime,
		entry.DayEndTime,
		entry.TotalWorkedMinutes,
		entry.FinalWorkedMinutes,
		entry.OvertimeMinutes,
		entry.TemporaryStopCount,
		entry.TotalTemporaryStopMinutes,
		entry.LunchBreakDeducted,
		entry.SyncStatus,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to upsert ledger entry: %w", err)
	}

	return entry, nil
}

// GetByUserAndDate implements ledger.Repository.
func (r *ledgerRepository) GetByUserAndDate(ctx context.Context, username string, date time.Time) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ledgerColumns + `
		FROM work_time_ledger
		WHERE username = $1 AND date = $2
	`

	entry, err := scanLedgerEntry(q.QueryRow(ctx, query, username, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, ledger.ErrEntryNotFound
		}
		return ledger.Entry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return entry, nil
}

// ListByUser implements ledger.Repository.
func (r *ledgerRepository) ListByUser(ctx context.Context, username string, filter ledger.ListFilter) ([]ledger.Entry, int64, error) {
	filter.Username = username
	return r.List(ctx, filter)
}

// List implements ledger.Repository.
func (r *ledgerRepository) List(ctx context.Context, filter ledger.ListFilter) ([]ledger.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Username != "" {
		conditions = append(conditions, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, filter.Username)
		argIdx++
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, filter.DateTo)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM work_time_ledger WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM work_time_ledger
		WHERE %s
		ORDER BY date DESC, username ASC
		LIMIT $%d OFFSET $%d
	`, ledgerColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, total, nil
}

// UpdateSyncStatus implements ledger.Repository.
func (r *ledgerRepository) UpdateSyncStatus(ctx context.Context, id string, status ledger.SyncStatus) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_time_ledger
		SET sync_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + ledgerColumns + `
	`

	entry, err := scanLedgerEntry(q.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, ledger.ErrEntryNotFound
		}
		return ledger.Entry{}, fmt.Errorf("failed to update ledger sync status: %w", err)
	}

	return entry, nil
}
