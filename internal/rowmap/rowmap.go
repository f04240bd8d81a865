// Package rowmap translates between the hosted table store's untyped rows
// and the typed entities used by the rest of the service. The store keys
// are snake_case and numeric columns may arrive as text, so every mapping
// is a pure, total function over the known field set with explicit numeric
// coercion. No validation happens here; an absent required field simply
// propagates as a zero value.
package rowmap

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/staffroom/logbook-api/internal/models"
)

// Row is one untyped record as returned by the table store.
type Row = map[string]interface{}

// LogEntryFromRow maps a logs-table row onto a LogEntry.
func LogEntryFromRow(row Row) models.LogEntry {
	return models.LogEntry{
		ID:           asString(row["id"]),
		TeacherID:    asString(row["teacher_id"]),
		TeacherName:  asString(row["teacher_name"]),
		Date:         asString(row["date"]),
		Period:       asString(row["period"]),
		ActivityType: models.ActivityType(asString(row["activity_type"])),
		Description:  asString(row["description"]),
		Status:       models.ApprovalStatus(asString(row["status"])),
		Feedback:     asString(row["feedback"]),
		Timestamp:    asInt64(row["timestamp"]),
	}
}

// LogEntryToRow maps a LogEntry onto a logs-table row.
func LogEntryToRow(entry models.LogEntry) Row {
	return Row{
		"id":            entry.ID,
		"teacher_id":    entry.TeacherID,
		"teacher_name":  entry.TeacherName,
		"date":          entry.Date,
		"period":        entry.Period,
		"activity_type": string(entry.ActivityType),
		"description":   entry.Description,
		"status":        string(entry.Status),
		"feedback":      entry.Feedback,
		"timestamp":     entry.Timestamp,
	}
}

// UserFromRow maps a users-table row onto a User.
func UserFromRow(row Row) models.User {
	return models.User{
		ID:         asString(row["id"]),
		Name:       asString(row["name"]),
		Role:       models.Role(asString(row["role"])),
		Email:      asString(row["email"]),
		Avatar:     asString(row["avatar"]),
		Subjects:   asString(row["subjects"]),
		Classes:    asString(row["classes"]),
		Bio:        asString(row["bio"]),
		Experience: asInt(row["experience"]),
	}
}

// UserToRow maps a User onto a users-table row.
func UserToRow(user models.User) Row {
	return Row{
		"id":         user.ID,
		"name":       user.Name,
		"role":       string(user.Role),
		"email":      user.Email,
		"avatar":     user.Avatar,
		"subjects":   user.Subjects,
		"classes":    user.Classes,
		"bio":        user.Bio,
		"experience": user.Experience,
	}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return ""
	}
}

// asInt64 coerces the store's numeric representations to int64. The hosted
// backend persists timestamps as text, so string parsing is the common
// path.
func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case []byte:
		return asInt64(string(v))
	default:
		return 0
	}
}

func asInt(value interface{}) int {
	return int(asInt64(value))
}
