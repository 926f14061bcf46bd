package authz

import (
	"errors"

	"tourbook/internal/domain/user"
)

var ErrPermissionDenied = errors.New("permission denied")

// Can is the single scope-resolution function. It evaluates the matrix rule,
// then the capability carve-outs:
//
//   - anyone holding a booking's captured email may view and update that
//     booking (magic-link access), independent of role ownership;
//   - a guide may also view/update bookings for tours they own, not just
//     records they created.
func Can(actor Actor, action Action, res Resource) bool {
	switch roleRule(actor.Role, res.Entity, action) {
	case anyRecord:
		return true
	case ownOnly:
		if res.OwnerID != actor.ID {
			return carveOut(actor, action, res)
		}
		return true
	case activeOnly:
		if action == ActionView {
			return res.Active || res.OwnerID == actor.ID || carveOut(actor, action, res)
		}
		return false
	default:
		return carveOut(actor, action, res)
	}
}

func carveOut(actor Actor, action Action, res Resource) bool {
	if res.Entity != EntityBooking {
		return false
	}
	if action != ActionView && action != ActionUpdate && action != ActionDestroy {
		return false
	}
	if actor.Email != nil && res.CapturedEmail != nil && actor.Email.EqualFold(*res.CapturedEmail) {
		return true
	}
	if actor.Role == user.RoleGuide && res.TourOwnerID == actor.ID {
		// Guides never destroy a tourist's booking, only see and act on it.
		return action != ActionDestroy
	}
	return false
}

// Check is Can with an error result for call sites that propagate denial.
func Check(actor Actor, action Action, res Resource) error {
	if !Can(actor, action, res) {
		return ErrPermissionDenied
	}
	return nil
}

// VisibleSet filters records to those the actor may view. The web layer feeds
// it whole result pages; the function is pure and order-preserving.
func VisibleSet(actor Actor, records []Resource) []Resource {
	visible := make([]Resource, 0, len(records))
	for _, r := range records {
		if Can(actor, ActionView, r) {
			visible = append(visible, r)
		}
	}
	return visible
}

func CanCreate(actor Actor, res Resource) bool  { return Can(actor, ActionCreate, res) }
func CanUpdate(actor Actor, res Resource) bool  { return Can(actor, ActionUpdate, res) }
func CanDestroy(actor Actor, res Resource) bool { return Can(actor, ActionDestroy, res) }
