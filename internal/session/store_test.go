package session

import (
	"path/filepath"
	"testing"

	"github.com/beatgen/studio/internal/edit"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "studio.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	sess := New("demo")
	sess.Genre = "house"
	sess.BPM = 128
	seed := int64(42)
	sess.Seed = &seed
	sess.SamplesDir = "/tmp/samples"
	sess.Selections["kick"] = "36-kick.wav"
	sess.MixVolumes["bass"] = -3

	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load("demo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Genre != "house" || got.BPM != 128 {
		t.Errorf("genre/bpm = %q/%d, want house/128", got.Genre, got.BPM)
	}
	if got.Seed == nil || *got.Seed != 42 {
		t.Errorf("seed = %v, want 42", got.Seed)
	}
	if got.Selections["kick"] != "36-kick.wav" {
		t.Errorf("selections = %v", got.Selections)
	}
	if got.MixVolumes["bass"] != -3 {
		t.Errorf("mix volumes = %v", got.MixVolumes)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set by save")
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Load("nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got session %q", got.Name)
	}
}

func TestEditsPersistWithDefaultElision(t *testing.T) {
	store := openTestStore(t)

	sess := New("demo")
	custom := edit.Default()
	custom.GainDB = -6
	custom.Reverse = true
	sess.SetEdits("bass", custom)
	sess.SetEdits("kick", edit.Default()) // default, must not be stored

	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load("demo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !got.HasEdits("bass") {
		t.Error("bass edits should persist")
	}
	if got.HasEdits("kick") {
		t.Error("default kick edits should not be stored")
	}
	if e := got.Edits("bass"); e.GainDB != -6 || !e.Reverse {
		t.Errorf("bass edits = %+v", e)
	}
	if e := got.Edits("kick"); !e.IsDefault() {
		t.Errorf("absent record should load as default, got %+v", e)
	}
}

func TestEditsRevertToDefaultRemovesRecord(t *testing.T) {
	store := openTestStore(t)

	sess := New("demo")
	custom := edit.Default()
	custom.AttackMS = 100
	sess.SetEdits("pad", custom)
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	sess.SetEdits("pad", edit.Default())
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load("demo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.HasEdits("pad") {
		t.Error("reverted edits should be dropped from the store")
	}
}

func TestListSorted(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(New(name)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != 3 {
		t.Fatalf("got %d names, want 3", len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	sess := New("gone")
	custom := edit.Default()
	custom.Normalize = true
	sess.SetEdits("lead", custom)
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete("gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := store.Load("gone")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Error("session should be gone")
	}

	// Deleting again is fine.
	if err := store.Delete("gone"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
