package fetch

import (
	"reflect"
	"testing"
)

func TestSplitPages(t *testing.T) {
	got, err := SplitPages(5000, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 pages, got %d", len(got))
	}
	if got[4] != (Page{Skip: 4000, First: 1000}) {
		t.Fatalf("last page mismatch: %+v", got[4])
	}
}

func TestSplitPagesRemainder(t *testing.T) {
	got, err := SplitPages(5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Page{
		{Skip: 0, First: 2},
		{Skip: 2, First: 2},
		{Skip: 4, First: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages mismatch: %+v != %+v", got, want)
	}
}

func TestSplitPagesInvalid(t *testing.T) {
	if _, err := SplitPages(0, 1); err == nil {
		t.Fatalf("expected error for empty total")
	}
	if _, err := SplitPages(10, 0); err == nil {
		t.Fatalf("expected error for zero page size")
	}
}
