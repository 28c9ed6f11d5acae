// Package policy decides whether a principal may perform an action on a
// resource. Decisions are pure values; persistence and HTTP concerns stay
// with the callers.
package policy

import "postboard/models"

type Action string

const (
	ActionViewAny Action = "view_any"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	// ActionLock covers lock/unlock of a user account. It is kept separate
	// from ActionUpdate so the self-profile carve-out never grants it.
	ActionLock Action = "lock"
)

type ResourceKind string

const (
	ResourcePost ResourceKind = "post"
	ResourceUser ResourceKind = "user"
)

// Principal is the authenticated actor of the current request,
// passed explicitly into every decision. No ambient state.
type Principal struct {
	ID            uint
	Role          models.UserRole
	Authenticated bool
}

// Resource identifies what is being acted on. OwnerID is the creating user
// for posts, and the user itself for user resources.
type Resource struct {
	Kind    ResourceKind
	OwnerID uint
}

type DenyReason string

const (
	ReasonNotAuthenticated    DenyReason = "not_authenticated"
	ReasonNotOwner            DenyReason = "not_owner"
	ReasonAdminOnly           DenyReason = "admin_only"
	ReasonSelfDeleteForbidden DenyReason = "self_delete_forbidden"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

func PostResource(ownerID uint) Resource {
	return Resource{Kind: ResourcePost, OwnerID: ownerID}
}

func UserResource(userID uint) Resource {
	return Resource{Kind: ResourceUser, OwnerID: userID}
}

// Decide evaluates (principal, action, resource). ViewAny and Create carry no
// concrete resource owner; pass PostResource(0) / UserResource(0) for those.
func Decide(p Principal, action Action, res Resource) Decision {
	if !p.Authenticated {
		return deny(ReasonNotAuthenticated)
	}

	switch res.Kind {
	case ResourceUser:
		// Nobody deletes their own account, admins included.
		if action == ActionDelete && res.OwnerID == p.ID {
			return deny(ReasonSelfDeleteForbidden)
		}
		if p.Role == models.RoleAdmin {
			return allow()
		}
		// Regular users touch only their own profile. Locking, listing,
		// creating and deleting accounts stay with administrators.
		if (action == ActionView || action == ActionUpdate) && res.OwnerID == p.ID {
			return allow()
		}
		return deny(ReasonAdminOnly)

	case ResourcePost:
		if p.Role == models.RoleAdmin {
			return allow()
		}
		switch action {
		case ActionViewAny, ActionCreate:
			return allow()
		case ActionView, ActionUpdate, ActionDelete:
			if res.OwnerID == p.ID {
				return allow()
			}
			return deny(ReasonNotOwner)
		default:
			return deny(ReasonNotOwner)
		}

	default:
		return deny(ReasonAdminOnly)
	}
}
