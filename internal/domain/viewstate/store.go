package viewstate

import "context"

// Store keeps the view state of each session.
type Store interface {
	// Load returns Idle for unknown sessions.
	Load(ctx context.Context, session string) (State, error)
	// Begin moves the session to Loading. It reports false when a submission is already in flight.
	Begin(ctx context.Context, session string) (bool, error)
	// Settle replaces the session state and releases the in-flight guard.
	Settle(ctx context.Context, session string, state State) error
	// Clear forgets the session.
	Clear(ctx context.Context, session string) error
}
