// Package prefs persists small user preferences, such as whether the welcome text was dismissed.
package prefs

import (
	"context"
	"fmt"
)

// WelcomeSeenKey holds "true" once the welcome text was dismissed.
const WelcomeSeenKey = "qrshare-welcome-seen"

// Store is a string key-value persistence.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// WelcomeSeen reports whether the welcome flag is set.
func WelcomeSeen(ctx context.Context, store Store) (bool, error) {
	value, ok, err := store.Get(ctx, WelcomeSeenKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", WelcomeSeenKey, err)
	}
	return ok && value == "true", nil
}

// MarkWelcomeSeen sets the welcome flag.
func MarkWelcomeSeen(ctx context.Context, store Store) error {
	if err := store.Set(ctx, WelcomeSeenKey, "true"); err != nil {
		return fmt.Errorf("write %s: %w", WelcomeSeenKey, err)
	}
	return nil
}
