package model

import "time"

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	BaseModel
	FullName string   `gorm:"size:100;not null" json:"fullName"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Company  string   `gorm:"size:100" json:"company"`
	JobRole  string   `gorm:"size:100" json:"jobRole"`
	Phone    string   `gorm:"size:30" json:"phone"`
	Password string   `gorm:"size:100" json:"-"`
	Role     UserRole `gorm:"type:enum('member','admin');default:'member'" json:"role"`

	// Respondents provisioned at submission time are pre-confirmed so they
	// can see results without an email round-trip first.
	EmailConfirmed bool      `gorm:"default:false" json:"emailConfirmed"`
	LastLogin      time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
