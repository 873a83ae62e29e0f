package common

const (
	// AuthorizationHeaderName carries the bearer credential on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the raw token in the Authorization header.
	BearerPrefix = "Bearer "

	// TokenType is reported by the sign-in endpoint alongside the token.
	TokenType = "Bearer"
)

// Permission names understood by both the console and the backend.
const (
	PermSuperAdmin        = "SUPER_ADMIN"
	PermCreateUser        = "CADASTRAR_USUARIO"
	PermListUsers         = "LISTAR_USUARIOS"
	PermManageProfiles    = "GERENCIAR_PERFIS"
	PermManagePermissions = "GERENCIAR_PERMISSOES"
)
