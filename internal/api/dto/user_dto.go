package dto

import (
	"time"

	"github.com/campus-desk/complaint-service/internal/domain"
	"github.com/campus-desk/complaint-service/internal/repository"
)

// CreateUserRequest payload for admin user creation.
type CreateUserRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
}

// UserListItem is one row of the admin user listing.
type UserListItem struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Department     string      `json:"department"`
	Role           domain.Role `json:"role"`
	ComplaintCount int         `json:"complaintCount"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// UserPageResponse wraps the paginated user listing.
type UserPageResponse struct {
	Users      []UserListItem `json:"users"`
	TotalUsers int            `json:"totalUsers"`
}

// NewUserPageResponse maps a repository user page.
func NewUserPageResponse(users []repository.UserWithComplaintCount, total int) UserPageResponse {
	items := make([]UserListItem, 0, len(users))
	for _, entry := range users {
		items = append(items, UserListItem{
			ID:             entry.ID,
			Name:           entry.Name,
			Email:          entry.Email,
			Department:     entry.Department,
			Role:           entry.Role,
			ComplaintCount: entry.ComplaintCount,
			CreatedAt:      entry.CreatedAt,
		})
	}
	return UserPageResponse{Users: items, TotalUsers: total}
}
