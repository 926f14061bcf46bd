// Package authz decides which records an actor may see or mutate. One
// declarative matrix (role × entity × action) is evaluated by a single
// resolver. The booking flow needs two carve-outs on top of the role rule:
// magic-link access via the captured email, and guides acting on bookings for
// tours they own. Both live here, never duplicated per call site.
package authz

import (
	"tourbook/internal/domain/user"

	"github.com/google/uuid"
)

type Entity string

const (
	EntityTour    Entity = "tour"
	EntityBooking Entity = "booking"
	EntityAddOn   Entity = "addon"
	EntityProfile Entity = "profile"
	EntityReview  Entity = "review"
)

type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Actor is whoever is asking. Anonymous actors carry a nil ID and may still
// hold a booking email proved through a magic-link token.
type Actor struct {
	ID    uuid.UUID
	Role  user.Role
	Email *user.Email
}

func Anonymous() Actor {
	return Actor{Role: user.RoleAnonymous}
}

// Resource is the scoping view of a record: who owns it, which tour it hangs
// off (and who owns that), and the visibility flags the filtered read paths
// need. CapturedEmail is only set for bookings.
type Resource struct {
	Entity        Entity
	OwnerID       uuid.UUID
	TourOwnerID   uuid.UUID
	CapturedEmail *user.Email
	Active        bool
}
