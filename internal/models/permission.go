package models

import "time"

// Permission is an atomic named capability.
type Permission struct {
	ID           int64      `json:"id"`
	CreatedAt    *time.Time `json:"criadoEm,omitempty"`
	UpdatedAt    *time.Time `json:"atualizadoEm,omitempty"`
	Name         string     `json:"nome"`
	Description  string     `json:"descricao,omitempty"`
	Resource     string     `json:"recurso,omitempty"`
	Action       string     `json:"acao,omitempty"`
	NumericValue float64    `json:"numericValue"`
	StringValue  string     `json:"stringValue,omitempty"`
}

// PermissionInput is the body of create/update permission requests.
type PermissionInput struct {
	Name         string  `json:"nome" validate:"required,max=120"`
	Description  string  `json:"descricao,omitempty"`
	Resource     string  `json:"recurso,omitempty"`
	Action       string  `json:"acao,omitempty"`
	NumericValue float64 `json:"numericValue"`
	StringValue  string  `json:"stringValue,omitempty"`
}

// PermissionFilter is the "object" part of a permission search.
type PermissionFilter struct {
	Name string `json:"nome,omitempty"`
}
