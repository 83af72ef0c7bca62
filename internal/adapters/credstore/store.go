package credstore

// Package credstore implements the two-tier credential cache. A Store owns a
// durable backend (survives restarts) and an ephemeral backend (scoped to the
// current process). It is always injected explicitly, never reached through
// package globals, so tests can swap in memory backends.

import (
	"context"
	"fmt"

	"github.com/pbflix/neteflix-api/internal/ports"
)

// Store routes credential reads and writes across the two persistence tiers.
// A given key lives in at most one tier at a time: writing to one tier clears
// the other so a stale duplicate can never shadow the fresh value.
type Store struct {
	durable   ports.CredentialBackend
	ephemeral ports.CredentialBackend
}

// StoreOptions groups the backends for New.
type StoreOptions struct {
	Durable   ports.CredentialBackend
	Ephemeral ports.CredentialBackend
}

// New constructs a Store. Both backends are required.
func New(opts StoreOptions) *Store {
	if opts.Durable == nil {
		panic("durable credential backend is required")
	}
	if opts.Ephemeral == nil {
		panic("ephemeral credential backend is required")
	}
	return &Store{durable: opts.Durable, ephemeral: opts.Ephemeral}
}

// Set writes value under key into the tier selected by persist and removes
// the key from the other tier. Overwrites silently.
func (s *Store) Set(ctx context.Context, key, value string, persist bool) error {
	primary, secondary := s.ephemeral, s.durable
	if persist {
		primary, secondary = s.durable, s.ephemeral
	}

	if err := primary.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set credential %q: %w", key, err)
	}
	if err := secondary.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear shadow credential %q: %w", key, err)
	}
	return nil
}

// Clear removes key from both tiers unconditionally.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.durable.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear durable credential %q: %w", key, err)
	}
	if err := s.ephemeral.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear ephemeral credential %q: %w", key, err)
	}
	return nil
}

// Read returns the durable value if present, else the ephemeral value. The
// durable-first order is a fixed tie-break: both tiers holding the same key
// should not happen, but it must degrade safely when it does.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if v, ok, err := s.durable.Get(ctx, key); err != nil {
		return "", false, fmt.Errorf("read durable credential %q: %w", key, err)
	} else if ok {
		return v, true, nil
	}

	v, ok, err := s.ephemeral.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read ephemeral credential %q: %w", key, err)
	}
	return v, ok, nil
}

// ReadDurable returns the durable-tier value only. Used for convenience flags
// that are defined to live exclusively in durable storage.
func (s *Store) ReadDurable(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.durable.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read durable credential %q: %w", key, err)
	}
	return v, ok, nil
}

// SetDurable writes a durable-only convenience value without touching the
// ephemeral tier.
func (s *Store) SetDurable(ctx context.Context, key, value string) error {
	if err := s.durable.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set durable credential %q: %w", key, err)
	}
	return nil
}

// ClearDurable removes a durable-only convenience value.
func (s *Store) ClearDurable(ctx context.Context, key string) error {
	if err := s.durable.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear durable credential %q: %w", key, err)
	}
	return nil
}
