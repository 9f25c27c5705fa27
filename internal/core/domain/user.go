package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// AuthSession is the logged-in operator of the voting booth.
type AuthSession struct {
	UserID        string    `json:"id"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	Authenticated bool      `json:"isAuthenticated"`
	CreatedAt     time.Time `json:"createdAt"`
}
