package handler

// RegisterRequest represents a self-registration request
type RegisterRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FirstName       string `json:"firstName" binding:"max=100"`
	LastName        string `json:"lastName" binding:"max=100"`
	Username        string `json:"username" binding:"max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update by the current user
type UpdateProfileRequest struct {
	FirstName       string `json:"firstName" binding:"max=100"`
	LastName        string `json:"lastName" binding:"max=100"`
	Avatar          string `json:"avatar" binding:"max=500"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MeResponse is the current user with their team memberships
type MeResponse struct {
	User        UserResponse         `json:"user"`
	Memberships []MembershipResponse `json:"memberships"`
}
