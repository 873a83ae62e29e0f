package models

import "time"

// Profile (role) bundles permissions.
type Profile struct {
	ID          int64        `json:"id"`
	CreatedAt   *time.Time   `json:"criadoEm,omitempty"`
	UpdatedAt   *time.Time   `json:"atualizadoEm,omitempty"`
	Name        string       `json:"nome"`
	Active      bool         `json:"ativo"`
	Permissions []Permission `json:"permissoes"`
}

// ProfileInput is the body of create/update profile requests.
type ProfileInput struct {
	Name          string  `json:"nome" validate:"required,max=120"`
	Active        *bool   `json:"ativo,omitempty"`
	PermissionIDs []int64 `json:"permissaoIds"`
}

// ProfileFilter is the "object" part of a profile search.
type ProfileFilter struct {
	Name   string `json:"nome,omitempty"`
	Active *bool  `json:"ativo,omitempty"`
}
