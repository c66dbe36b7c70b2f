package dto

import "github.com/spec-kit/institute-service/internal/domain"

// AssignRoleRequest grants RoleID to UID.
type AssignRoleRequest struct {
	UID    int64 `json:"UID"`
	RoleID int64 `json:"RoleID"`
}

// RoleResponse output shape.
type RoleResponse struct {
	RoleID   int64  `json:"RoleID"`
	RoleName string `json:"RoleName"`
}

func NewRoleResponses(roles []domain.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleResponse{RoleID: r.ID, RoleName: r.Name})
	}
	return out
}
