package policy

import (
	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
)

// Action names a guarded operation
type Action string

const (
	ActionViewFullProfile       Action = "view_full_profile"
	ActionEditProfile           Action = "edit_profile"
	ActionManageAbsenceRequests Action = "manage_absence_requests"
	ActionLeaveFeedback         Action = "leave_feedback"
)

// Decision is the outcome of evaluating a rule
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanViewFullProfile is true for managers and for the profile owner
func CanViewFullProfile(p models.Principal, ownerID uuid.UUID) bool {
	return p.IsManager() || p.SubjectID == ownerID
}

// CanEditProfile follows the same rule as the full profile view
func CanEditProfile(p models.Principal, ownerID uuid.UUID) bool {
	return CanViewFullProfile(p, ownerID)
}

// CanManageAbsenceRequests is true for managers only
func CanManageAbsenceRequests(p models.Principal) bool {
	return p.IsManager()
}

// CanLeaveFeedback forbids feedback on one's own profile, whatever the role
func CanLeaveFeedback(p models.Principal, profileID uuid.UUID) bool {
	return p.SubjectID != profileID
}

// Evaluate applies the rule for action and explains the outcome.
// ownerID is ignored by actions that are not tied to a resource owner.
func Evaluate(p models.Principal, action Action, ownerID uuid.UUID) Decision {
	switch action {
	case ActionViewFullProfile:
		if CanViewFullProfile(p, ownerID) {
			return allow("owner or manager")
		}
		return deny("only the owner or a manager can see the full profile")
	case ActionEditProfile:
		if CanEditProfile(p, ownerID) {
			return allow("owner or manager")
		}
		return deny("only the owner or a manager can edit this profile")
	case ActionManageAbsenceRequests:
		if CanManageAbsenceRequests(p) {
			return allow("manager")
		}
		return deny("only managers can manage absence requests")
	case ActionLeaveFeedback:
		if CanLeaveFeedback(p, ownerID) {
			return allow("feedback on a colleague")
		}
		return deny("cannot leave feedback on your own profile")
	default:
		return deny("unknown action")
	}
}
