package model

import "time"

// User is an internal account created through signup.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Created      time.Time `db:"created"`
	Updated      time.Time `db:"updated"`
}

// Session is a bearer token issued at login.
type Session struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	Created   time.Time `db:"created"`
}
