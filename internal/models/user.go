// Package models holds the domain entities exchanged between the console and
// the backend. JSON tags follow the backend's (Portuguese) wire names.
package models

import "time"

// User is an account that can sign in to the admin console.
type User struct {
	ID        int64      `json:"id"`
	CreatedAt *time.Time `json:"criadoEm,omitempty"`
	UpdatedAt *time.Time `json:"atualizadoEm,omitempty"`
	Person    *Person    `json:"pessoa,omitempty"`
	Login     string     `json:"login"`
	Active    bool       `json:"ativo"`
	Profiles  []Profile  `json:"perfis"`
}

// UserInput is the body of create/update user requests. Only the profile IDs
// of Profiles are read by the backend.
type UserInput struct {
	Login    string    `json:"login" validate:"required,email"`
	Password string    `json:"senha,omitempty" validate:"omitempty,min=6"`
	Active   *bool     `json:"ativo,omitempty"`
	Person   *Person   `json:"pessoa,omitempty"`
	Profiles []Profile `json:"perfis"`
}

// ProfileIDs lists the IDs referenced by in.Profiles.
func (in UserInput) ProfileIDs() []int64 {
	ids := make([]int64, 0, len(in.Profiles))
	for _, p := range in.Profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

// UserFilter is the "object" part of a user search. Zero values do not filter.
type UserFilter struct {
	Login  string `json:"login,omitempty"`
	Active *bool  `json:"ativo,omitempty"`
}

// StatusChange toggles a user's active flag.
type StatusChange struct {
	Active bool `json:"ativo"`
}

// PasswordChange replaces a user's password after checking the current one.
type PasswordChange struct {
	Current string `json:"senhaAtual" validate:"required"`
	New     string `json:"novaSenha" validate:"required,min=6"`
}
