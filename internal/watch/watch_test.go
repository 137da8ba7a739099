package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func waitCall(t *testing.T, calls <-chan struct{}, within time.Duration) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(within):
		t.Fatal("task did not run")
	}
}

func TestFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	if err := os.WriteFile(path, []byte("names: [A]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, 20*time.Millisecond, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("failures are logged")
		})
	}()

	waitCall(t, calls, 5*time.Second)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
		t.Fatal("sibling file triggered the task")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("names: [B]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitCall(t, calls, 5*time.Second)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("File = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("File did not return after cancel")
	}
}

func TestFileMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "job.yaml"), 0, func(context.Context) error {
		t.Error("task ran for an unwatchable path")
		return nil
	})
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
