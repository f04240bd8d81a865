package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/rowmap"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// LogFilter narrows log queries. Date bounds compare the normalized
// calendar-day string and are inclusive on both ends.
type LogFilter struct {
	TeacherID string
	Status    models.ApprovalStatus
	DateFrom  string
	DateTo    string
}

// LogRepository persists activity log entries in the hosted logs table.
type LogRepository interface {
	Create(ctx context.Context, entry models.LogEntry) error
	Get(ctx context.Context, id string) (models.LogEntry, error)
	List(ctx context.Context, filter LogFilter) ([]models.LogEntry, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, feedback *string) error
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository constructs the log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, entry models.LogEntry) error {
	row := rowmap.LogEntryToRow(entry)
	return r.db.WithContext(ctx).Table("logs").Create(&row).Error
}

func (r *logRepository) Get(ctx context.Context, id string) (models.LogEntry, error) {
	var rows []rowmap.Row
	err := r.db.WithContext(ctx).Table("logs").Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return models.LogEntry{}, err
	}
	if len(rows) == 0 {
		return models.LogEntry{}, ErrNotFound
	}
	return rowmap.LogEntryFromRow(rows[0]), nil
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]models.LogEntry, error) {
	query := r.db.WithContext(ctx).Table("logs")

	if filter.TeacherID != "" {
		query = query.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}

	var rows []rowmap.Row
	if err := query.Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowmap.LogEntryFromRow(row))
	}
	return entries, nil
}

func (r *logRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, feedback *string) error {
	updates := rowmap.Row{"status": string(status)}
	if feedback != nil {
		updates["feedback"] = *feedback
	}

	result := r.db.WithContext(ctx).Table("logs").Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
