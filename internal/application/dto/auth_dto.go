package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos del usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // segundos
	User      UserResponse `json:"user"`
}

// UserResponse usuario sin hash.
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
