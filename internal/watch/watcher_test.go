package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRun_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields: {}\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	triggers := make(chan string, 8)
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, Options{Paths: []string{path}, Debounce: 20 * time.Millisecond, Ready: ready},
			func(_ context.Context, trigger string) error {
				triggers <- trigger
				return nil
			})
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}

	require.NoError(t, os.WriteFile(path, []byte("fields:\n  q: Search\n"), 0o600))

	select {
	case got := <-triggers:
		assert.Equal(t, filepath.Base(path), filepath.Base(got))
	case <-time.After(5 * time.Second):
		t.Fatal("reload was not triggered")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_IgnoresSiblingFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields: {}\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	triggers := make(chan string, 8)
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, Options{Paths: []string{path}, Debounce: 10 * time.Millisecond, Ready: ready},
			func(_ context.Context, trigger string) error {
				triggers <- trigger
				return errors.New("reload errors are logged only")
			})
	}()
	<-ready

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))

	select {
	case got := <-triggers:
		t.Fatalf("unexpected reload for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	noop := func(context.Context, string) error { return nil }

	assert.Error(t, Run(ctx, Options{Paths: []string{"x"}}, nil))
	assert.Error(t, Run(ctx, Options{}, noop))
	assert.Error(t, Run(ctx, Options{Paths: []string{filepath.Join(t.TempDir(), "missing")}}, noop))
}

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "labels.yaml", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "labels.yaml", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: ".labels.yaml.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "labels.yaml~", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "messages.json", Op: fsnotify.Rename}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRelevant(tt.event), tt.event.String())
	}
}
