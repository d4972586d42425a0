package identity

import (
	"reflect"
	"testing"
)

type item struct{ name string }

func TestUnboundedMap(t *testing.T) {
	m := New[*item](0)
	a := &item{name: "a"}
	m.Put(3, a)
	m.Put(1, &item{name: "b"})

	got, ok := m.Get(3)
	if !ok || got != a {
		t.Fatalf("expected cached pointer for id 3, got %v %v", got, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if keys := m.Keys(); !reflect.DeepEqual(keys, []int64{1, 3}) {
		t.Errorf("unexpected keys %v", keys)
	}

	m.Delete(3)
	if _, ok := m.Get(3); ok {
		t.Fatal("expected id 3 to be gone")
	}
	if m.Contains(3) {
		t.Fatal("Contains reported deleted id")
	}

	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("expected empty map, got %d", m.Len())
	}
}

func TestBoundedMapEvictsLeastRecentlyUsed(t *testing.T) {
	m := New[*item](2)
	m.Put(1, &item{name: "one"})
	m.Put(2, &item{name: "two"})

	// touch 1 so that 2 becomes the eviction candidate
	if _, ok := m.Get(1); !ok {
		t.Fatal("expected id 1")
	}
	m.Put(3, &item{name: "three"})

	if m.Contains(2) {
		t.Error("expected id 2 to be evicted")
	}
	if !m.Contains(1) || !m.Contains(3) {
		t.Errorf("expected ids 1 and 3 to remain, keys=%v", m.Keys())
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Len())
	}
}

func TestLookupHook(t *testing.T) {
	var hits, misses int
	m := New[*item](0, WithLookupHook[*item](func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}))
	m.Put(1, &item{})
	m.Get(1)
	m.Get(2)
	m.Contains(1)

	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}
