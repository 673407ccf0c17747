// AngelaMos | 2026
// dto.go

package auth

type RegisterRequest struct {
	Username         string `json:"username"          validate:"required,min=1,max=150"`
	Email            string `json:"email"             validate:"required,email,max=255"`
	Password         string `json:"password"          validate:"required,min=8,max=128"`
	RepeatedPassword string `json:"repeated_password" validate:"required,eqfield=Password"`
	Type             string `json:"type"              validate:"required,oneof=customer business"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse keeps the flat shape the Coderr frontend expects.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	UserID       int64  `json:"user_id"`
	Type         string `json:"type"`
}

type MeResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	IsStaff  bool   `json:"is_staff"`
}
