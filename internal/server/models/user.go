// Package models holds server-only records that never cross the wire.
package models

// Credentials is what sign-in and password changes need from a user row.
type Credentials struct {
	ID           int64
	Login        string
	PasswordHash []byte
	Active       bool
}
