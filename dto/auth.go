package dto

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is only accepted together with a valid invite token.
type SignupRequest struct {
	InviteToken string `json:"invite_token" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
}

type CreateInviteRequest struct {
	Email        string `json:"email" binding:"required,email"`
	DepartmentID string `json:"department_id"`
	Role         string `json:"role" binding:"omitempty,oneof=member admin"`
	ExpiresIn    int    `json:"expires_in_hours" binding:"omitempty,min=1,max=720"`
}
