package dto

import "time"

// SignUpRequest registro público. El primer usuario del sistema recibe el rol administrador.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// SignInRequest entrada para login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest body de PUT /api/auth/password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RoleID    string    `json:"role_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse salida de signin/signup.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MeResponse perfil de la sesión con sus permisos efectivos.
// Notice explica al usuario por qué no puede crear registros (identidad comercial sin vendedor).
type MeResponse struct {
	User          UserResponse `json:"user"`
	Role          string       `json:"role,omitempty"`
	Permissions   []string     `json:"permissions"`
	SalespersonID string       `json:"salesperson_id,omitempty"`
	Notice        string       `json:"notice,omitempty"`
}
