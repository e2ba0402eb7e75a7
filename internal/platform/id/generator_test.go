package id

import (
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectIDGenerator(t *testing.T) {
	t.Parallel()

	g := NewObjectIDGenerator()
	first, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	second, _ := g.NewID()

	if !primitive.IsValidObjectID(first) {
		t.Fatalf("expected object id hex, got %q", first)
	}
	if first == second {
		t.Fatalf("expected unique ids, got %q twice", first)
	}
}

func TestUUIDGenerator(t *testing.T) {
	t.Parallel()

	v, err := NewUUIDGenerator().NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	if _, err := uuid.Parse(v); err != nil {
		t.Fatalf("expected uuid, got %q: %v", v, err)
	}
}
