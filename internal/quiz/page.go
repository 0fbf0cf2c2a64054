package quiz

// PageNav describes the navigation affordances for a page of a listing.
type PageNav struct {
	Index       int
	HasPrevious bool
	HasNext     bool
}

// Paginate computes navigation for page index of a listing with totalCount
// entries and pageSize entries per page. The index is not clamped: an
// out-of-range page simply has no next page, while HasPrevious stays true
// for any index > 0 so the user can navigate back.
func Paginate(index, pageSize, totalCount int) PageNav {
	return PageNav{
		Index:       index,
		HasPrevious: index > 0,
		HasNext:     (index+1)*pageSize < totalCount,
	}
}

// Page pairs a slice of listed quizzes with its navigation.
type Page struct {
	Items []Quiz
	Nav   PageNav
}
