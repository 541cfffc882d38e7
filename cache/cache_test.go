package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/use-agent/ratescope/models"
)

func TestStoreCreateGet(t *testing.T) {
	s := New(time.Hour, 10)

	s.Create("a", []string{"https://one.test", "https://two.test"})

	urls, results, ok := s.Get("a")
	if !ok {
		t.Fatal("session not found after Create")
	}
	if len(urls) != 2 || urls[0] != "https://one.test" {
		t.Errorf("urls = %v", urls)
	}
	if len(results) != 0 {
		t.Errorf("fresh session has %d results, want 0", len(results))
	}
}

func TestStoreAppend(t *testing.T) {
	s := New(time.Hour, 10)
	s.Create("a", []string{"https://one.test"})

	s.Append("a", models.ParsedFields{models.FieldCompany: "Acme"})
	s.Append("a", models.ParsedFields{models.FieldCompany: "Beta"})

	_, results, ok := s.Get("a")
	if !ok {
		t.Fatal("session missing")
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0][models.FieldCompany] != "Acme" || results[1][models.FieldCompany] != "Beta" {
		t.Errorf("results out of order: %v", results)
	}
}

func TestStoreAppendUnknownSession(t *testing.T) {
	s := New(time.Hour, 10)
	// Must not panic or create a session.
	s.Append("ghost", models.ParsedFields{models.FieldCompany: "Acme"})
	if s.Len() != 0 {
		t.Errorf("Len = %d after append to unknown session, want 0", s.Len())
	}
}

func TestStoreDelete(t *testing.T) {
	s := New(time.Hour, 10)
	s.Create("a", nil)
	s.Delete("a")
	if _, _, ok := s.Get("a"); ok {
		t.Error("session still present after Delete")
	}
	s.Delete("a") // no-op
}

func TestStoreCapacityEviction(t *testing.T) {
	s := New(time.Hour, 3)
	for i := 0; i < 3; i++ {
		s.Create(fmt.Sprintf("s%d", i), nil)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	s.Create("overflow", nil)

	if s.Len() != 3 {
		t.Errorf("Len = %d after overflow, want 3", s.Len())
	}
	if _, _, ok := s.Get("overflow"); !ok {
		t.Error("newest session was evicted instead of an old one")
	}
}

func TestStoreGetCopiesURLs(t *testing.T) {
	in := []string{"https://one.test"}
	s := New(time.Hour, 10)
	s.Create("a", in)

	in[0] = "mutated"

	urls, _, _ := s.Get("a")
	if urls[0] != "https://one.test" {
		t.Errorf("store shares caller slice: %v", urls)
	}
}
