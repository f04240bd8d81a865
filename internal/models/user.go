package models

// Role identifies the kind of account holder. It is assigned at
// registration and never changes afterwards.
type Role string

const (
	RoleTeacher   Role = "TEACHER"
	RolePrincipal Role = "PRINCIPAL"
	RoleOfficial  Role = "OFFICIAL"
	RoleOther     Role = "OTHER"
)

// Roles lists every valid role value.
var Roles = []Role{RoleTeacher, RolePrincipal, RoleOfficial, RoleOther}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RolePrincipal, RoleOfficial, RoleOther:
		return true
	}
	return false
}

// IsReviewer reports whether the role may approve or reject log entries.
func (r Role) IsReviewer() bool {
	return r == RolePrincipal
}

// User represents a staff member with a local profile row. The avatar is a
// base64 data URL; subjects, classes, bio and experience are optional
// profile fields editable after registration.
type User struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Role       Role   `gorm:"size:16;not null" json:"role"`
	Email      string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar     string `gorm:"type:text" json:"avatar,omitempty"`
	Subjects   string `gorm:"size:255" json:"subjects,omitempty"`
	Classes    string `gorm:"size:255" json:"classes,omitempty"`
	Bio        string `gorm:"type:text" json:"bio,omitempty"`
	Experience int    `json:"experience"`
}

// TableName pins the hosted store's table name.
func (User) TableName() string { return "users" }
