package auth

import (
	"testing"

	"github.com/campus-desk/complaint-service/internal/domain"
)

func principalWithRole(id string, role domain.Role) *Principal {
	return &Principal{User: &domain.User{ID: id, Role: role}}
}

func TestCanAccessAdminGatedActions(t *testing.T) {
	admin := principalWithRole("a1", domain.RoleAdmin)
	student := principalWithRole("s1", domain.RoleStudent)

	adminOnly := []Action{
		ActionComplaintListAll,
		ActionComplaintSetStatus,
		ActionUserList,
		ActionUserCreate,
		ActionSeedData,
	}
	for _, action := range adminOnly {
		if !CanAccess(admin, action, nil) {
			t.Errorf("admin denied %s", action)
		}
		if CanAccess(student, action, nil) {
			t.Errorf("student allowed %s", action)
		}
	}
}

func TestCanAccessComplaintDeleteIsOwnerOnly(t *testing.T) {
	owner := principalWithRole("s1", domain.RoleStudent)
	other := principalWithRole("s2", domain.RoleStudent)
	admin := principalWithRole("a1", domain.RoleAdmin)
	complaint := &domain.Complaint{ID: "c1", SubmittedBy: "s1"}

	if !CanAccess(owner, ActionComplaintDelete, complaint) {
		t.Error("submitter denied deletion of own complaint")
	}
	if CanAccess(other, ActionComplaintDelete, complaint) {
		t.Error("non-submitter allowed deletion")
	}
	// No admin override on deletion.
	if CanAccess(admin, ActionComplaintDelete, complaint) {
		t.Error("admin allowed deletion of someone else's complaint")
	}
	if CanAccess(owner, ActionComplaintDelete, nil) {
		t.Error("deletion allowed without a resource")
	}
}

func TestCanAccessRejectsAnonymous(t *testing.T) {
	if CanAccess(nil, ActionComplaintListAll, nil) {
		t.Error("nil principal allowed")
	}
	if CanAccess(&Principal{}, ActionUserList, nil) {
		t.Error("principal without user allowed")
	}
}
