package models

import "time"

// UserProfile is the denormalized profile stored at users/<userId>.json.
type UserProfile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// LoginLogEntry is stored at users/<userId>_login_logs.json; each login replaces it.
type LoginLogEntry struct {
	UserID    string    `json:"userId"`
	LoginTime time.Time `json:"loginTime"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Token           string `json:"token"`
	TokenExpiration string `json:"tokenExpiration"`
}
