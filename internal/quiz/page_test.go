package quiz

import "testing"

func TestPaginateSevenItemsPageSizeFive(t *testing.T) {
	cases := []struct {
		index       int
		hasPrevious bool
		hasNext     bool
	}{
		{index: 0, hasPrevious: false, hasNext: true},
		{index: 1, hasPrevious: true, hasNext: false},
		{index: 2, hasPrevious: true, hasNext: false},
	}
	for _, tc := range cases {
		nav := Paginate(tc.index, 5, 7)
		if nav.Index != tc.index {
			t.Fatalf("page %d: index = %d", tc.index, nav.Index)
		}
		if nav.HasPrevious != tc.hasPrevious {
			t.Fatalf("page %d: hasPrevious = %v, want %v", tc.index, nav.HasPrevious, tc.hasPrevious)
		}
		if nav.HasNext != tc.hasNext {
			t.Fatalf("page %d: hasNext = %v, want %v", tc.index, nav.HasNext, tc.hasNext)
		}
	}
}

func TestPaginateExactPageBoundary(t *testing.T) {
	// 10 items, page size 5: page 1 is the last full page.
	if nav := Paginate(1, 5, 10); nav.HasNext {
		t.Fatal("page 1 of exactly 2 pages should have no next")
	}
	if nav := Paginate(0, 5, 10); !nav.HasNext {
		t.Fatal("page 0 of 2 should have a next")
	}
}

func TestPaginateEmptyListing(t *testing.T) {
	nav := Paginate(0, 5, 0)
	if nav.HasPrevious || nav.HasNext {
		t.Fatalf("empty listing should have no navigation, got %+v", nav)
	}
}
