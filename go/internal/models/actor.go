package models

import "time"

// TenantID identifies an isolated community
type TenantID string

// ActorID is the platform identity of a person acting on the engine
type ActorID string

// Actor is the acting identity attached to every call.
// Admin is asserted by the binding from the platform's own permission model.
type Actor struct {
	ID    ActorID `json:"id"`
	Admin bool    `json:"admin"`
}

// Role is the authority an actor holds over a given team
type Role string

const (
	RoleNone    Role = "NONE"
	RoleManager Role = "MANAGER"
	RoleCaptain Role = "CAPTAIN"
	RoleAdmin   Role = "ADMIN"
)

// CanSchedule reports whether the role may act on a team's friendlies
func (r Role) CanSchedule() bool {
	return r == RoleManager || r == RoleCaptain
}

// TenantBan is an entry of the cross-tenant ban list
type TenantBan struct {
	TenantID TenantID  `json:"tenant_id"`
	Reason   string    `json:"reason,omitempty"`
	BannedAt time.Time `json:"banned_at"`
}
