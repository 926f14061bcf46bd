package authz

import (
	"tourbook/internal/domain/user"
)

// rule is the scope a role gets for one entity/action pair.
type rule int

const (
	denied rule = iota
	ownOnly
	anyRecord
	// activeOnly grants read access to records flagged active/listed; the
	// filtered read-only view everyone gets on catalogs and tour listings.
	activeOnly
)

type actionRules map[Action]rule

// matrix is the single source of permission truth. The resolver in scope.go
// applies the carve-outs (booking email capability, guide slice over bookings
// of owned tours) after the role rule.
var matrix = map[user.Role]map[Entity]actionRules{
	user.RoleAdmin: {
		EntityTour:    {ActionView: anyRecord, ActionCreate: anyRecord, ActionUpdate: anyRecord, ActionDestroy: anyRecord},
		EntityBooking: {ActionView: anyRecord, ActionCreate: anyRecord, ActionUpdate: anyRecord, ActionDestroy: anyRecord},
		EntityAddOn:   {ActionView: anyRecord, ActionCreate: anyRecord, ActionUpdate: anyRecord, ActionDestroy: anyRecord},
		EntityProfile: {ActionView: anyRecord, ActionCreate: anyRecord, ActionUpdate: anyRecord, ActionDestroy: anyRecord},
		EntityReview:  {ActionView: anyRecord, ActionCreate: anyRecord, ActionUpdate: anyRecord, ActionDestroy: anyRecord},
	},
	user.RoleGuide: {
		EntityTour:    {ActionView: activeOnly, ActionCreate: anyRecord, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
		EntityBooking: {ActionView: ownOnly, ActionCreate: denied, ActionUpdate: ownOnly, ActionDestroy: denied},
		EntityAddOn:   {ActionView: activeOnly, ActionCreate: ownOnly, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
		EntityProfile: {ActionView: ownOnly, ActionCreate: denied, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
		EntityReview:  {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
	},
	user.RoleTourist: {
		EntityTour:    {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
		EntityBooking: {ActionView: ownOnly, ActionCreate: anyRecord, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
		EntityAddOn:   {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
		EntityProfile: {ActionView: ownOnly, ActionCreate: denied, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
		EntityReview:  {ActionView: activeOnly, ActionCreate: ownOnly, ActionUpdate: ownOnly, ActionDestroy: ownOnly},
	},
	user.RoleAnonymous: {
		EntityTour:    {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
		EntityBooking: {ActionView: denied, ActionCreate: anyRecord, ActionUpdate: denied, ActionDestroy: denied},
		EntityAddOn:   {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
		EntityProfile: {ActionView: denied, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
		EntityReview:  {ActionView: activeOnly, ActionCreate: denied, ActionUpdate: denied, ActionDestroy: denied},
	},
}

func roleRule(role user.Role, entity Entity, action Action) rule {
	entities, ok := matrix[role]
	if !ok {
		return denied
	}
	actions, ok := entities[entity]
	if !ok {
		return denied
	}
	return actions[action]
}
