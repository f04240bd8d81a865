package dto

import "github.com/staffroom/logbook-api/internal/models"

// LogSubmitRequest captures a new activity log submission.
type LogSubmitRequest struct {
	Period       string `json:"period" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required"`
	Description  string `json:"description" validate:"required"`
}

// LogStatusUpdateRequest captures a reviewer decision on a pending entry.
type LogStatusUpdateRequest struct {
	Status   string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Feedback string `json:"feedback"`
}

// LogListRequest narrows the reviewer listing. Date bounds are inclusive
// calendar-day strings (YYYY-MM-DD).
type LogListRequest struct {
	Status   string
	DateFrom string
	DateTo   string
}

// LogResponse serializes a log entry for API clients.
type LogResponse struct {
	ID           string `json:"id"`
	TeacherID    string `json:"teacher_id"`
	TeacherName  string `json:"teacher_name"`
	Date         string `json:"date"`
	Period       string `json:"period"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Feedback     string `json:"feedback,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// NewLogResponse converts a log entry into its response shape.
func NewLogResponse(entry models.LogEntry) LogResponse {
	return LogResponse{
		ID:           entry.ID,
		TeacherID:    entry.TeacherID,
		TeacherName:  entry.TeacherName,
		Date:         entry.Date,
		Period:       entry.Period,
		ActivityType: string(entry.ActivityType),
		Description:  entry.Description,
		Status:       string(entry.Status),
		Feedback:     entry.Feedback,
		Timestamp:    entry.Timestamp,
	}
}

// NewLogResponseSlice converts a batch of entries preserving order.
func NewLogResponseSlice(entries []models.LogEntry) []LogResponse {
	responses := make([]LogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewLogResponse(entry))
	}
	return responses
}
