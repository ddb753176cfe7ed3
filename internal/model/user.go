package model

import "time"

// User is the single persisted identity record. Local accounts carry a
// username and password hash; Google accounts carry a generated uid and the
// provider email. The nullable unique columns are pointers so MySQL allows
// multiple NULLs under the unique indexes.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     *string    `json:"username,omitempty" gorm:"uniqueIndex;size:20"`
	UID          *string    `json:"uid,omitempty" gorm:"column:uid;uniqueIndex;size:9"`
	Email        *string    `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	PasswordHash string     `json:"-" gorm:"size:255"` // Never expose in JSON
	Nickname     string     `json:"nickname" gorm:"size:10"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Subject returns the token subject for the user: username for local
// accounts, email for Google accounts.
func (u *User) Subject() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
