package utils

import (
	"strings"
	"testing"
)

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v (first occurrence order must be kept)", got, want)
		}
	}
}

func TestNilIfEmpty(t *testing.T) {
	if NilIfEmpty("") != nil {
		t.Error("empty string should map to nil")
	}
	if v := NilIfEmpty("Submitted"); v == nil || *v != "Submitted" {
		t.Errorf("got %v, want pointer to Submitted", v)
	}
	if NilIfEmpty(0) != nil {
		t.Error("zero int should map to nil")
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 42
	if DereferencePtr(&v) != 42 {
		t.Error("non-nil pointer should dereference")
	}
	if DereferencePtr[int](nil) != 0 {
		t.Error("nil pointer without default should yield zero value")
	}
	if DereferencePtr[int](nil, 7) != 7 {
		t.Error("nil pointer should fall back to the default")
	}
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename()
	b := GenerateUniqueFilename()
	if a == "" || strings.ContainsAny(a, "/\\") {
		t.Errorf("filename %q must be non-empty and path-safe", a)
	}
	if a == b {
		t.Errorf("two generated filenames collided: %q", a)
	}
}
