package identity

import "slices"

// Well-known roles.
const (
	// RoleSystem is held by administrative processes (CLI, SDK).
	RoleSystem = "system"
	// RoleManager may create, update and delete vocabulary records.
	RoleManager = "vocabulary-manager"
)

// Identity is the authenticated caller of a service operation.
type Identity struct {
	id        string
	roles     []string
	pidScopes []string
}

// New creates an identity with the given roles and pid scope patterns.
func New(id string, roles, pidScopes []string) Identity {
	return Identity{id: id, roles: slices.Clone(roles), pidScopes: slices.Clone(pidScopes)}
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

// System returns the identity used for administrative operations.
func System() Identity {
	return Identity{id: "system", roles: []string{RoleSystem}}
}

// ID returns the subject identifier, empty for anonymous callers.
func (i Identity) ID() string { return i.id }

// Roles returns the granted roles.
func (i Identity) Roles() []string { return i.roles }

// PIDScopes returns glob patterns restricting writable pids. Empty means unrestricted.
func (i Identity) PIDScopes() []string { return i.pidScopes }

// IsAnonymous reports whether the caller is unauthenticated.
func (i Identity) IsAnonymous() bool { return i.id == "" }

// HasRole reports whether the identity holds the role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.roles, role)
}

// IsSystem reports whether the identity is the system identity.
func (i Identity) IsSystem() bool { return i.HasRole(RoleSystem) }
