package dto

// LoginRequest authenticates the admin account.
type LoginRequest struct {
	Password string `json:"password" binding:"required" validate:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ChangePasswordRequest rotates the admin credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" validate:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=4" validate:"required,min=4"`
	ConfirmPassword string `json:"confirm_password" binding:"required" validate:"required"`
}
