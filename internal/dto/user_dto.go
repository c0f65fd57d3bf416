package dto

import "github.com/noah-isme/remed-api/internal/models"

// UserResponse serializes a selectable actor.
type UserResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	StudentID *uint       `json:"student_id"`
	TeacherID *uint       `json:"teacher_id"`
}

// PermissionResponse serializes the capability set derived for a role.
type PermissionResponse struct {
	Role         models.Role `json:"role"`
	CanCreate    bool        `json:"can_create"`
	CanEdit      bool        `json:"can_edit"`
	CanDelete    bool        `json:"can_delete"`
	VisibleViews []string    `json:"visible_views"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		StudentID: model.StudentID,
		TeacherID: model.TeacherID,
	}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
