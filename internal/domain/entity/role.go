// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a principal holds in the directory.
type Role string

const (
	// RoleAdmin can view platform-wide records.
	RoleAdmin Role = "admin"
	// RoleCustomer browses stores and submits ratings.
	RoleCustomer Role = "customer"
	// RoleStoreOwner views the aggregated feedback of exactly one owned store.
	RoleStoreOwner Role = "store_owner"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleStoreOwner:
		return true
	default:
		return false
	}
}
