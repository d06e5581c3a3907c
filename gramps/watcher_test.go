package gramps

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArchiveWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ancestry.gramps")
	require.NoError(t, os.WriteFile(path, documentBytes(""), 0o644))

	graph, loader := newTestLoader()
	watcher, err := NewArchiveWatcher(loader, []string{path}, zap.NewNop().Sugar())
	require.NoError(t, err)
	watcher.debouncePeriod = 50 * time.Millisecond
	watcher.Start()
	defer watcher.Stop()

	body := `
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
  </people>
`
	require.NoError(t, os.WriteFile(path, documentBytes(body), 0o644))

	// The reload is debounced and asynchronous
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if graph.Stats().People == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("archive change was not re-loaded, stats: %+v", graph.Stats())
}

func TestArchiveWatcherMissingFile(t *testing.T) {
	_, loader := newTestLoader()
	_, err := NewArchiveWatcher(loader, []string{filepath.Join(t.TempDir(), "nope.gramps")}, zap.NewNop().Sugar())
	assert.Error(t, err)
}
