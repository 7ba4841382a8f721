package dto

import "encoding/json"

type UpdateProfileRequest struct {
	Name     *string         `json:"name" binding:"omitempty,min=1"`
	Password *string         `json:"password" binding:"omitempty,min=8"`
	Profile  *string         `json:"profile"`
	Settings json.RawMessage `json:"settings"`
}

type AdminUpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	IsAdmin     *bool   `json:"is_admin"`
	IsSuperuser *bool   `json:"is_superuser"`
}
