package model

import "github.com/golang-jwt/jwt/v5"

// Role controls what a token may reach
type Role string

const (
	RoleUser      Role = "user"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// IsReviewer reports whether the role may read other users' assessments
func (r Role) IsReviewer() bool {
	return r == RoleCounselor || r == RoleAdmin
}

// Claims is the JWT payload for every token kind
type Claims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginResponse is returned by login and register
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
