package identity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation, reconstructed from
// token claims. Authorization decisions in the application layer run
// against this snapshot, not against the stored user.
type Actor struct {
	ID          uuid.UUID
	Username    string
	Role        UserRole
	Permissions Permissions
}

// IsAdmin checks if the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanCancelSales checks the cancel-sales capability
func (a Actor) CanCancelSales() bool {
	return a.IsAdmin() || a.Permissions.CanCancelSales
}

// CanMarkCommissionPaid checks the mark-commission-paid capability
func (a Actor) CanMarkCommissionPaid() bool {
	return a.IsAdmin() || a.Permissions.CanMarkCommissionPaid
}

// ActorFromUser builds an actor snapshot from a stored user
func ActorFromUser(u *User) Actor {
	return Actor{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}
