package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

func writeRules(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "rules:\n  - pattern: recall\n    tier: YELLOW\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	assert.Equal(t, domain.TierYellow, w.Classify("recall vote").Tier)

	writeRules(t, path, "rules:\n  - pattern: recall\n    tier: RED\n")
	assert.Eventually(t, func() bool {
		return w.Classify("recall vote").Tier == domain.TierRed
	}, 2*time.Second, 20*time.Millisecond)

	// An invalid file leaves the last good rules in place.
	time.Sleep(100 * time.Millisecond)
	reloads := w.Reloads()
	writeRules(t, path, "rules: [")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, reloads, w.Reloads())
	assert.Equal(t, domain.TierRed, w.Classify("recall vote").Tier)
}

func TestWatcher_InvalidAtStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "rules:\n  - pattern: x\n")

	_, err := NewWatcher(path, nil)
	assert.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "rules: []\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.Start(context.Background())

	w.Stop()
	w.Stop()
	assert.Empty(t, w.Rules().Rules)
}
