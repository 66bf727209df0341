package persistence

import (
	"path/filepath"
	"testing"
	"time"
)

func TestConsumerStateStore(t *testing.T) {
	t.Run("NewConsumerStateStore", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConsumerStateStore(filepath.Join(dir, "state.json"))
		if store == nil {
			t.Fatal("NewConsumerStateStore() returned nil")
		}
	})

	t.Run("SaveAndLoadEmpty", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConsumerStateStore(filepath.Join(dir, "state.json"))

		state := &ConsumerState{
			Version: 1,
			SavedAt: time.Now(),
		}

		if err := store.Save(state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if got.Version != 1 {
			t.Errorf("Version = %d, want 1", got.Version)
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConsumerStateStore(filepath.Join(dir, "nonexistent.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() = %v, want nil for non-existent file", got)
		}
	})

	t.Run("AttributePresetRoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConsumerStateStore(filepath.Join(dir, "state.json"))

		state := &ConsumerState{
			Version:           1,
			SavedAt:           time.Now(),
			LastBondedAddress: "AA:BB:CC:DD:EE:FF",
			NotifAttributes: []AttributeRequest{
				{ID: 0, MaxLen: 32},
				{ID: 1, MaxLen: 32},
				{ID: 3, MaxLen: 32},
			},
			AppAttributes: []AttributeRequest{
				{ID: 0, MaxLen: 32},
			},
		}

		if err := store.Save(state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if got.LastBondedAddress != "AA:BB:CC:DD:EE:FF" {
			t.Errorf("LastBondedAddress = %q, want AA:BB:CC:DD:EE:FF", got.LastBondedAddress)
		}
		if len(got.NotifAttributes) != 3 {
			t.Fatalf("len(NotifAttributes) = %d, want 3", len(got.NotifAttributes))
		}
		if got.NotifAttributes[2].ID != 3 {
			t.Errorf("NotifAttributes[2].ID = %d, want 3", got.NotifAttributes[2].ID)
		}
		if len(got.AppAttributes) != 1 || got.AppAttributes[0].MaxLen != 32 {
			t.Errorf("AppAttributes = %+v, want one entry with MaxLen 32", got.AppAttributes)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "state.json")
		store := NewConsumerStateStore(path)

		state := &ConsumerState{
			Version:           1,
			LastBondedAddress: "AA:BB:CC:DD:EE:FF",
		}
		_ = store.Save(state)

		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() after Clear() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() after Clear() = %v, want nil", got)
		}
	})
}
