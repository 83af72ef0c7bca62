package ports

import "context"

// CredentialBackend is one key-value persistence tier for cached credential
// hints. The credential store composes two of these: a durable tier that
// survives restarts and an ephemeral tier scoped to the current process.
type CredentialBackend interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, overwriting silently.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
