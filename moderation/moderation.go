package moderation

import "context"

// Moderator decides whether user-supplied text is acceptable input. Callers
// run this gate before handing a query to the orchestrator.
type Moderator interface {
	Allowed(ctx context.Context, text string) (bool, error)
}
