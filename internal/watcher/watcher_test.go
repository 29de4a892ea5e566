package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(context.Context) (bool, error) {
	r.calls.Add(1)
	return true, nil
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "productos.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	reloader := &countingReloader{}
	w, err := New(path, reloader, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load())

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[ ]"), 0o644))
	}
	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "productos.json"), &countingReloader{}, zap.NewNop())
	require.NoError(t, err)
	w.Stop()
}
