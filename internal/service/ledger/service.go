package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/ledger"
)

type LedgerServiceImpl struct {
	ledgerRepo ledger.Repository
}

func NewLedgerService(ledgerRepo ledger.Repository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		ledgerRepo: ledgerRepo,
	}
}

// List implements ledger.Service.
func (s *LedgerServiceImpl) List(ctx context.Context, filter ledger.ListFilter) (*ledger.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		entries []ledger.Entry
		total   int64
		err     error
	)
	if filter.Username != "" {
		entries, total, err = s.ledgerRepo.ListByUser(ctx, filter.Username, filter)
	} else {
		entries, total, err = s.ledgerRepo.List(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	results := make([]ledger.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		results = append(results, mapEntryToResponse(entry))
	}

	return &ledger.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Entries:    results,
	}, nil
}

// UpdateSyncStatus implements ledger.Service.
func (s *LedgerServiceImpl) UpdateSyncStatus(ctx context.Context, id string, req ledger.UpdateSyncStatusRequest) (*ledger.EntryResponse, error) {
	req.ID = id
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.ledgerRepo.UpdateSyncStatus(ctx, id, ledger.SyncStatus(req.SyncStatus))
	if err != nil {
		return nil, err
	}

	result := mapEntryToResponse(entry)
	return &result, nil
}

func mapEntryToResponse(entry ledger.Entry) ledger.EntryResponse {
	return ledger.EntryResponse{
		ID:                        entry.ID,
		UserID:                    entry.UserID,
		Username:                  entry.Username,
		Date:                      entry.Date.Format("2006-01-02"),
		DayStartTime:              entry.DayStartTime.Format(time.RFC3339),
		DayEndTime:                entry.DayEndTime.Format(time.RFC3339),
		TotalWorkedMinutes:        entry.TotalWorkedMinutes,
		FinalWorkedMinutes:        entry.FinalWorkedMinutes,
		OvertimeMinutes:           entry.OvertimeMinutes,
		TemporaryStopCount:        entry.TemporaryStopCount,
		TotalTemporaryStopMinutes: entry.TotalTemporaryStopMinutes,
		LunchBreakDeducted:        entry.LunchBreakDeducted,
		SyncStatus:                string(entry.SyncStatus),
		CreatedAt:                 entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                 entry.UpdatedAt.Format(time.RFC3339),
	}
}
