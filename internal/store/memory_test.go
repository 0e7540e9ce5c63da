package store

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/temperature-capture/internal/weather"
)

var _ weather.ObjectStore = (*MemoryStore)(nil)

func TestMemoryStore_PutOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Put(ctx, "atlanta-temperature/a.json", []byte("first"), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	id, err := s.Put(ctx, "atlanta-temperature/a.json", []byte("second"), "application/json")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id != "atlanta-temperature/a.json" {
		t.Errorf("id = %q", id)
	}

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Puts() != 2 {
		t.Errorf("Puts() = %d, want 2", s.Puts())
	}

	obj, err := s.Get("atlanta-temperature/a.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(obj.Data) != "second" || obj.ContentType != "application/json" {
		t.Errorf("Get() = %q (%s)", obj.Data, obj.ContentType)
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore()
	data := []byte("abc")
	if _, err := s.Put(context.Background(), "p", data, "text/plain"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data[0] = 'x'

	obj, _ := s.Get("p")
	if string(obj.Data) != "abc" {
		t.Errorf("stored data changed with caller buffer: %q", obj.Data)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	if _, err := NewMemoryStore().Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ListByPrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, p := range []string{"atlanta-temperature/b.json", "other/x.json", "atlanta-temperature/a.json"} {
		if _, err := s.Put(ctx, p, nil, "application/json"); err != nil {
			t.Fatalf("Put(%s) error = %v", p, err)
		}
	}

	got := s.List(weather.ObjectPrefix)
	want := []string{"atlanta-temperature/a.json", "atlanta-temperature/b.json"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if _, err := s.Put(ctx, "p", []byte("x"), "text/plain"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put() error = %v, want context.Canceled", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
