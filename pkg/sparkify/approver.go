package sparkify

import "context"

// Approver confirms destructive operations such as dropping and recreating
// the analytics database.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type database name for confirmation
type Approver interface {
	// RequestApproval returns true if the operator approved recreating dbName.
	RequestApproval(ctx context.Context, dbName string) (bool, error)
}
