package dto

import "github.com/yigit/clubrecruit/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a student registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents a user as seen by the user themselves
type UserResponse struct {
	ID              int64    `json:"id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Roles           []string `json:"roles"`
	AdminClubID     *int64   `json:"adminClubId,omitempty"`
	ExecPosition    *string  `json:"execPosition,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	ProfilePhotoURL *string  `json:"profilePhotoUrl,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse renders the caller's own user record
func NewUserResponse(u *models.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Roles:           roles,
		AdminClubID:     u.AdminClubID,
		ExecPosition:    u.ExecPosition,
		Bio:             u.Bio,
		ProfilePhotoURL: u.ProfilePhotoURL,
	}
}
