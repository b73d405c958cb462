package session

import (
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(0)

	s := m.Create()
	if s.ID == "" {
		t.Fatal("session id should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}
}

func TestGet_UnknownID(t *testing.T) {
	m := NewManager(0)
	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestCurrent_PrefersTransformed(t *testing.T) {
	orig := dataset.New()
	orig.AddColumn("a", []dataset.Value{dataset.Int(1)})

	s := &Session{Original: orig}
	if s.Current() != orig {
		t.Error("Current() should fall back to the original dataset")
	}

	transformed := dataset.New()
	s.Transformed = transformed
	if s.Current() != transformed {
		t.Error("Current() should prefer the transformed dataset")
	}
}

func TestUpdate(t *testing.T) {
	m := NewManager(0)
	s := m.Create()

	d := dataset.New()
	err := m.Update(s.ID, func(s *Session) error {
		s.Original = d
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := m.Get(s.ID)
	if got.Original != d {
		t.Error("Update() did not persist the change")
	}

	if err := m.Update("nope", func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() on unknown id = %v, want ErrNotFound", err)
	}
}

func TestDelete_UnknownIsNoOp(t *testing.T) {
	m := NewManager(0)
	m.Delete("nope")

	s := m.Create()
	m.Delete(s.ID)
	if m.Len() != 0 {
		t.Errorf("Len() = %d after delete, want 0", m.Len())
	}
}

func TestSweep(t *testing.T) {
	m := NewManager(time.Minute)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	stale := m.Create()
	clock = clock.Add(30 * time.Second)
	fresh := m.Create()

	// Only the first session is past the TTL.
	clock = clock.Add(45 * time.Second)
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}

	if _, err := m.Get(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Error("stale session should be gone")
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should survive, got %v", err)
	}
}

func TestSweep_GetRefreshesIdleTimer(t *testing.T) {
	m := NewManager(time.Minute)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	s := m.Create()
	clock = clock.Add(50 * time.Second)
	if _, err := m.Get(s.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	clock = clock.Add(50 * time.Second)
	if removed := m.Sweep(); removed != 0 {
		t.Errorf("Sweep() removed %d, want 0 after refresh", removed)
	}
}

func TestSweep_DisabledTTL(t *testing.T) {
	m := NewManager(0)
	m.Create()
	if removed := m.Sweep(); removed != 0 {
		t.Errorf("Sweep() removed %d with expiry disabled, want 0", removed)
	}
}
