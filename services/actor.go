package services

import "github.com/cuentaclara/restaurant-pos/models"

// Actor is the authenticated caller of a service operation. Handlers build it
// from the JWT claims; services never read identity from anywhere else.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
