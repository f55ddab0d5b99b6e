package compact

import (
	"fmt"
	"testing"
)

func TestSet_Basics(t *testing.T) {
	s := MustNewSet[string]()
	if !s.IsEmpty() || s.Len() != 0 {
		t.Fatal("fresh set not empty")
	}
	if !s.Add("a") {
		t.Fatal("first Add reported a duplicate")
	}
	if s.Add("a") {
		t.Fatal("duplicate Add reported an insert")
	}
	s.Add("b")
	if s.Len() != 2 || !s.Contains("a") || !s.Contains("b") || s.Contains("c") {
		t.Fatalf("set contents wrong: %s", s)
	}
	if !s.Remove("a") || s.Remove("a") {
		t.Fatal("Remove results wrong")
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Fatal("Clear left keys behind")
	}
}

func TestSet_AdaptiveRepresentation(t *testing.T) {
	s := MustNewSet[int](WithCompactSize(4), WithSingleValueKey(0))
	for i := 0; i < 6; i++ {
		s.Add(i)
	}
	if got := s.m.Stats().State; got != "delegate" {
		t.Fatalf("state %q at size 6", got)
	}
	for i := 5; i > 0; i-- {
		s.Remove(i)
	}
	if got := s.m.Stats().State; got != "single-value" {
		t.Fatalf("state %q at size 1", got)
	}
}

func TestSet_SortedSlice(t *testing.T) {
	s := MustNewSet[int](WithOrdering(SortedOrder), WithSingleValueKey(0))
	for _, k := range []int{5, 3, 8, 1} {
		s.Add(k)
	}
	if got := fmt.Sprint(s.Slice()); got != "[1 3 5 8]" {
		t.Fatalf("Slice = %v", got)
	}
	if got := s.String(); got != "{1, 3, 5, 8}" {
		t.Fatalf("String = %q", got)
	}
}

func TestSet_CaseInsensitive(t *testing.T) {
	s := MustNewSet[string](WithCaseInsensitive())
	s.Add("Key")
	if !s.Contains("KEY") {
		t.Fatal("case rule not applied")
	}
	if s.Add("kEy") {
		t.Fatal("case-equal key added twice")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestSet_CloneAndEqual(t *testing.T) {
	s := MustNewSet[string]()
	s.Add("a")
	s.Add("b")
	c := s.Clone()
	if !s.Equal(c) {
		t.Fatal("clone not equal")
	}
	c.Add("c")
	if s.Equal(c) || s.Contains("c") {
		t.Fatal("clone mutation leaked")
	}
	if s.Equal(nil) {
		t.Fatal("equal to nil")
	}
	all := 0
	for range s.All() {
		all++
	}
	if all != 2 {
		t.Fatalf("All yielded %d keys", all)
	}
}
