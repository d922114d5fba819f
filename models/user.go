package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role,omitempty" bson:"role,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"-" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"-" bson:"created_at,omitempty"`
}
