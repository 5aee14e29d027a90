package session

import "github.com/abhisek/gyansetu/internal/portal"

// ChangedMsg announces an identity change to the UI loop. It is produced by
// the store's subscription (delivered through the running program) and by
// the auth screen after a successful sign-in or registration. A nil Identity
// means signed out.
type ChangedMsg struct {
	Identity *portal.Identity
}
