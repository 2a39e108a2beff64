package workout

import (
	"errors"
	"testing"

	"github.com/claude/tonalmcp/internal/models"
)

func TestCatalogResolve(t *testing.T) {
	c := testCatalog()

	m, err := c.Resolve("goblet squat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "m-squat" {
		t.Errorf("ID = %q, want m-squat", m.ID)
	}

	_, err = c.Resolve("Squat")
	if !errors.Is(err, ErrMovementNotFound) {
		t.Errorf("err = %v, want ErrMovementNotFound", err)
	}
}

func TestCatalogDuplicateNames(t *testing.T) {
	c := NewCatalog([]models.Movement{
		{ID: "a", Name: "Deadlift", CountReps: true},
		{ID: "b", Name: "DEADLIFT", CountReps: true},
	})

	m, err := c.Resolve("deadlift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "b" {
		t.Errorf("ID = %q, want the later entry b", m.ID)
	}
	if c.Name("a") != "Deadlift" {
		t.Errorf("Name(a) = %q, want Deadlift", c.Name("a"))
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCatalogNil(t *testing.T) {
	var c *Catalog
	if _, err := c.Resolve("Row"); !errors.Is(err, ErrMovementNotFound) {
		t.Errorf("err = %v, want ErrMovementNotFound", err)
	}
	if c.Name("x") != "x" {
		t.Errorf("Name(x) = %q, want x", c.Name("x"))
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
