package catalog

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
)

func song(id, band string) entity.Entity {
	return entity.Reconstruct(entity.Fields{ID: id, Title: id, Band: band})
}

func TestNew_PreservesOrder(t *testing.T) {
	c, err := New([]entity.Entity{song("b", "X"), song("a", "Y"), song("c", "X")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d", c.Len())
	}
	want := []string{"b", "a", "c"}
	for i, e := range c.All() {
		if e.ID() != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, e.ID(), want[i])
		}
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]entity.Entity{song("a", "X"), song("a", "Y")})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNew_Empty(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 || len(c.All()) != 0 {
		t.Error("expected empty catalog")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	in := []entity.Entity{song("a", "X")}
	c, _ := New(in)

	in[0] = song("mutated", "Z")
	out := c.All()
	out[0] = song("also-mutated", "Z")

	if got := c.All()[0].ID(); got != "a" {
		t.Errorf("catalog mutated through slice, got %q", got)
	}
}

func TestGet(t *testing.T) {
	c, _ := New([]entity.Entity{song("a", "X"), song("b", "Y")})

	e, ok := c.Get("b")
	if !ok || e.Band() != "Y" {
		t.Errorf("Get(b) = %v, %v", e.ID(), ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should not resolve")
	}
}
