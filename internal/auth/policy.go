package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-desk/complaint-service/internal/domain"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionComplaintListAll   Action = "complaint:list_all"
	ActionComplaintDelete    Action = "complaint:delete"
	ActionComplaintSetStatus Action = "complaint:set_status"
	ActionUserList           Action = "user:list"
	ActionUserCreate         Action = "user:create"
	ActionSeedData           Action = "seed:write"
)

// CanAccess is the single authorization policy for the service. Resource is
// the object the action targets (a *domain.Complaint for complaint actions,
// nil otherwise).
//
// Complaint deletion is deliberately owner-only: admins do not get an
// override, matching the observed product behavior.
func CanAccess(p *Principal, action Action, resource any) bool {
	if p == nil || p.User == nil {
		return false
	}

	switch action {
	case ActionComplaintListAll, ActionComplaintSetStatus,
		ActionUserList, ActionUserCreate, ActionSeedData:
		return p.User.IsAdmin()
	case ActionComplaintDelete:
		complaint, ok := resource.(*domain.Complaint)
		return ok && complaint.OwnedBy(p.User.ID)
	}
	return false
}

// Require guards a route behind the policy check for the given action.
func Require(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !CanAccess(principal, action, nil) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
