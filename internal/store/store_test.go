package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Dir {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "canvases"))
	require.NoError(t, err)
	return d
}

func TestWriteRead(t *testing.T) {
	d := openTemp(t)

	require.NoError(t, d.Write("a.json", []byte(`{"x":1}`)))
	data, mtime, err := d.Read("a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(data))
	assert.WithinDuration(t, time.Now(), mtime, time.Minute)

	info, err := os.Stat(filepath.Join(d.Path(), "a.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, d.Write("a.json", []byte(`{"x":2}`)))
	data, _, err = d.Read("a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, string(data))
}

func TestReadMissing(t *testing.T) {
	d := openTemp(t)
	_, _, err := d.Read("nope.json")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := d.Exists("nope.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidIDs(t *testing.T) {
	d := openTemp(t)
	for _, id := range []string{"", ".json", "../x.json", "sub/x.json", `sub\x.json`, "x.txt", ".hidden.json"} {
		assert.ErrorIs(t, d.Write(id, []byte("{}")), ErrInvalidID, "id %q", id)
		_, _, err := d.Read(id)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
		assert.ErrorIs(t, d.Delete(id), ErrInvalidID, "id %q", id)
	}
}

func TestDelete(t *testing.T) {
	d := openTemp(t)
	require.NoError(t, d.Write("a.json", []byte("{}")))

	require.NoError(t, d.Delete("a.json"))
	ok, err := d.Exists("a.json")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, d.Delete("a.json"), "deleting twice is fine")
}

func TestListNewestFirst(t *testing.T) {
	d := openTemp(t)
	base := time.Date(2025, 10, 24, 12, 0, 0, 0, time.UTC)

	write := func(id string, mtime time.Time) {
		require.NoError(t, d.Write(id, []byte("{}")))
		require.NoError(t, os.Chtimes(filepath.Join(d.Path(), id), mtime, mtime))
	}
	write("old.json", base)
	write("new.json", base.Add(time.Hour))
	write("tie_b.json", base.Add(30*time.Minute))
	write("tie_a.json", base.Add(30*time.Minute))

	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), ".tmp.json"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(d.Path(), "dir.json"), 0o755))

	list, err := d.List()
	require.NoError(t, err)

	var ids []string
	for _, info := range list {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"new.json", "tie_a.json", "tie_b.json", "old.json"}, ids)
	assert.True(t, list[0].ModTime.Equal(base.Add(time.Hour)))
}

func waitForEvent(t *testing.T, events <-chan Event, want Event) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "watch stopped early")
			if ev == want {
				return
			}
		case <-timeout:
			t.Fatalf("no %v event for %s", want.Op, want.ID)
		}
	}
}

func TestWatchReportsChanges(t *testing.T) {
	d := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := d.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, d.Write("a.json", []byte("{}")))
	require.NoError(t, d.Write("a.json", []byte(`{"again":true}`)))
	waitForEvent(t, events, Event{ID: "a.json", Op: Changed})

	require.NoError(t, d.Delete("a.json"))
	waitForEvent(t, events, Event{ID: "a.json", Op: Removed})

	cancel()
	for range events {
	}
}

func TestWatchCancelledContext(t *testing.T) {
	d := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Watch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDebouncerKeepsTimerAddedWhileEarlierOneFires(t *testing.T) {
	b := newDebouncer(5 * time.Millisecond)
	delivered := make(chan Event, 2)
	deliver := func(e Event) { delivered <- e }

	b.add(Event{ID: "a.json", Op: Changed}, deliver)
	b.mu.Lock()
	// Let the first timer fire and block on the lock.
	time.Sleep(30 * time.Millisecond)
	b.delay = time.Hour
	added := make(chan struct{})
	go func() {
		b.add(Event{ID: "a.json", Op: Removed}, deliver)
		close(added)
	}()
	time.Sleep(10 * time.Millisecond)
	b.mu.Unlock()

	select {
	case e := <-delivered:
		assert.Equal(t, Changed, e.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("first event not delivered")
	}
	<-added

	b.mu.Lock()
	_, pending := b.timers["a.json"]
	b.mu.Unlock()
	assert.True(t, pending, "the newer timer must stay tracked")

	done := make(chan struct{})
	go func() {
		b.stopAndWait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stopAndWait did not stop the newer timer")
	}
	assert.Empty(t, delivered)
}
