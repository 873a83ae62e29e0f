package models

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// SignInResponse is returned by a successful sign-in.
type SignInResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	User      *User  `json:"usuario"`
}
