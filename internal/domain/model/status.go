package model

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	StatusAwaitingAcceptance OrderStatus = "AwaitingAcceptance"
	StatusInPreparation      OrderStatus = "InPreparation"
	StatusReady              OrderStatus = "Ready"
	StatusOutForDelivery     OrderStatus = "OutForDelivery"
	StatusDelivered          OrderStatus = "Delivered"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{
	StatusAwaitingAcceptance,
	StatusInPreparation,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Role is the staff function an actor performs.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
	RoleKitchen  Role = "kitchen"
	RoleDelivery Role = "delivery"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleKitchen, RoleDelivery:
		return true
	}
	return false
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	Login string
	Role  Role
}

type transition struct {
	to       OrderStatus
	delivery *bool
	actors   []Role
}

var (
	deliveryOnly    = true
	nonDeliveryOnly = false
)

var transitions = map[OrderStatus][]transition{
	StatusAwaitingAcceptance: {
		{to: StatusInPreparation, actors: []Role{RoleCashier}},
	},
	StatusInPreparation: {
		{to: StatusReady, delivery: &nonDeliveryOnly, actors: []Role{RoleKitchen}},
		{to: StatusOutForDelivery, delivery: &deliveryOnly, actors: []Role{RoleKitchen}},
	},
	StatusReady: {
		{to: StatusDelivered, actors: []Role{RoleCashier, RoleKitchen}},
	},
	StatusOutForDelivery: {
		{to: StatusDelivered, actors: []Role{RoleDelivery}},
	},
}

// CanTransition reports whether actor may move an order of fulfillment type ft
// from one status to another. Admin may take any edge of the table.
func CanTransition(from, to OrderStatus, ft FulfillmentType, actor Role) bool {
	for _, t := range transitions[from] {
		if t.to != to {
			continue
		}
		if t.delivery != nil && *t.delivery != (ft == FulfillmentDelivery) {
			return false
		}
		if actor == RoleAdmin {
			return true
		}
		for _, allowed := range t.actors {
			if allowed == actor {
				return true
			}
		}
		return false
	}
	return false
}

// ReadyStatus returns the status reached when the kitchen finishes an order.
func ReadyStatus(ft FulfillmentType) OrderStatus {
	if ft == FulfillmentDelivery {
		return StatusOutForDelivery
	}
	return StatusReady
}

// Steps returns the lifecycle path an order of type ft follows.
func Steps(ft FulfillmentType) []OrderStatus {
	return []OrderStatus{StatusAwaitingAcceptance, StatusInPreparation, ReadyStatus(ft), StatusDelivered}
}

// Progress returns the completed fraction of the lifecycle for s.
func Progress(s OrderStatus, ft FulfillmentType) float64 {
	steps := Steps(ft)
	for i, step := range steps {
		if step == s {
			return float64(i) / float64(len(steps)-1)
		}
	}
	return 0
}
