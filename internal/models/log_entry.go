package models

// ActivityType classifies what a staff member did during a period.
type ActivityType string

const (
	ActivityClass      ActivityType = "Class"
	ActivityOfficeWork ActivityType = "Office Work"
	ActivityFreePeriod ActivityType = "Free Period (Not Used)"
	ActivityProxyClass ActivityType = "Proxy Class"
	ActivityOther      ActivityType = "Something Else"
)

// ActivityTypes lists every valid activity type.
var ActivityTypes = []ActivityType{
	ActivityClass,
	ActivityOfficeWork,
	ActivityFreePeriod,
	ActivityProxyClass,
	ActivityOther,
}

// Valid reports whether the activity type is one of the enumerated values.
func (a ActivityType) Valid() bool {
	for _, t := range ActivityTypes {
		if a == t {
			return true
		}
	}
	return false
}

// ApprovalStatus tracks the review state of a log entry. PENDING is the
// initial state; APPROVED and REJECTED are terminal.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Valid reports whether the status is one of the enumerated values.
func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no further transition is allowed from s.
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Periods is the fixed ordered set of time-slot labels a log may be filed
// against.
var Periods = []string{
	"Period 1 (08:00 - 09:00)",
	"Period 2 (09:00 - 10:00)",
	"Period 3 (10:15 - 11:15)",
	"Period 4 (11:15 - 12:15)",
	"Lunch Break",
	"Period 5 (13:00 - 14:00)",
	"Period 6 (14:00 - 15:00)",
}

// ValidPeriod reports whether the label belongs to the fixed period set.
func ValidPeriod(period string) bool {
	for _, p := range Periods {
		if p == period {
			return true
		}
	}
	return false
}

// LogEntry is one activity record submitted by a staff member for a
// specific period. TeacherName is denormalized at creation time and is not
// resynced if the profile is later renamed. Timestamp is epoch
// milliseconds and drives the default newest-first ordering.
type LogEntry struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	TeacherID    string         `gorm:"size:36;index;not null" json:"teacher_id"`
	TeacherName  string         `gorm:"size:255;not null" json:"teacher_name"`
	Date         string         `gorm:"size:32;not null" json:"date"`
	Period       string         `gorm:"size:64;not null" json:"period"`
	ActivityType ActivityType   `gorm:"size:64;not null" json:"activity_type"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Status       ApprovalStatus `gorm:"size:16;not null" json:"status"`
	Feedback     string         `gorm:"type:text" json:"feedback,omitempty"`
	Timestamp    int64          `gorm:"not null;index" json:"timestamp"`
}

// TableName pins the hosted store's table name.
func (LogEntry) TableName() string { return "logs" }
