package award

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

// Action is an operation guarded by the permission policy.
type Action string

// Guarded actions.
const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSearch Action = "search"
	ActionAdmin  Action = "admin"
)

// Authorize checks whether the identity may perform action on the award pid.
//
// Reads and searches are public. Writes require the vocabulary-manager role and,
// when the identity carries pid scopes, a pid matching one of them. The system
// identity may do anything; administrative actions are reserved to it.
func Authorize(id identity.Identity, action Action, pid string) error {
	switch action {
	case ActionRead, ActionSearch:
		return nil
	}
	if id.IsSystem() {
		return nil
	}
	if id.IsAnonymous() {
		return fmt.Errorf("%s requires authentication: %w", action, domain.ErrPermissionDenied)
	}
	if action == ActionAdmin {
		return fmt.Errorf("%s is restricted to the system identity: %w", id.ID(), domain.ErrPermissionDenied)
	}
	if !id.HasRole(identity.RoleManager) {
		return fmt.Errorf("%s may not %s awards: %w", id.ID(), action, domain.ErrPermissionDenied)
	}
	if !inScope(id.PIDScopes(), pid) {
		return fmt.Errorf("pid %q is outside the scopes of %s: %w", pid, id.ID(), domain.ErrPermissionDenied)
	}
	return nil
}

func inScope(scopes []string, pid string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, pattern := range scopes {
		// Invalid patterns never match.
		if ok, err := doublestar.Match(pattern, pid); err == nil && ok {
			return true
		}
	}
	return false
}
