package auth

import "time"

// SessionCookie names the opaque identifier cookie standing in for a
// session. Its value is a user ID and is trusted as-is.
const SessionCookie = "demo-user"

// DemoEmail identifies the single demo account the login surrogate
// creates on first use.
const DemoEmail = "demo@example.com"

// User is an account that can own buyer leads. There are no credentials
// and no roles; ownership is the only permission.
type User struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex"`
	Name      string    `json:"name" gorm:"column:name"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }
