package ledger

import (
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/validator"
)

type ListFilter struct {
	Username string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.DateFrom != "" {
		if _, ok := validator.IsValidDate(f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be YYYY-MM-DD",
			})
		}
	}
	if f.DateTo != "" {
		if _, ok := validator.IsValidDate(f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be YYYY-MM-DD",
			})
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateSyncStatusRequest struct {
	ID         string `json:"-"`
	SyncStatus string `json:"sync_status"`
}

func (r *UpdateSyncStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if !SyncStatus(r.SyncStatus).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "sync_status",
			Message: "sync_status must be one of pending, synced, edited",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryResponse struct {
	ID                        string `json:"id"`
	UserID                    string `json:"user_id"`
	Username                  string `json:"username"`
	Date                      string `json:"date"`
	DayStartTime              string `json:"day_start_time"`
	DayEndTime                string `json:"day_end_time"`
	TotalWorkedMinutes        int    `json:"total_worked_minutes"`
	FinalWorkedMinutes        int    `json:"final_worked_minutes"`
	OvertimeMinutes           int    `json:"overtime_minutes"`
	TemporaryStopCount        int    `json:"temporary_stop_count"`
	TotalTemporaryStopMinutes int    `json:"total_temporary_stop_minutes"`
	LunchBreakDeducted        bool   `json:"lunch_break_deducted"`
	SyncStatus                string `json:"sync_status"`
	CreatedAt                 string `json:"created_at"`
	UpdatedAt                 string `json:"updated_at"`
}

type ListResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Entries    []EntryResponse `json:"entries"`
}
