package repository

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/educare-hub/internal/model"
)

// AllCategories is the category value the frontend sends to mean "no
// category filter".
const AllCategories = "All"

// CourseSort selects the ordering of a course listing.
type CourseSort string

const (
	SortNewest    CourseSort = "createdAt"  // createdAt descending (default)
	SortPriceAsc  CourseSort = "price-asc"  // price ascending
	SortPriceDesc CourseSort = "price-desc" // price descending
)

// ParseCourseSort maps the raw sort parameter to a CourseSort.  Unknown and
// empty values fall back to SortNewest.
func ParseCourseSort(raw string) CourseSort {
	switch CourseSort(strings.TrimSpace(raw)) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortNewest
	}
}

// Less reports whether a is ordered before b.  Equal keys are ordered by
// ID so that consecutive pages never overlap.
func (s CourseSort) Less(a, b model.Course) bool {
	switch s {
	case SortPriceAsc:
		if a.Price != b.Price {
			return a.Price < b.Price
		}
	case SortPriceDesc:
		if a.Price != b.Price {
			return a.Price > b.Price
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// CourseFilter selects courses.  The zero value matches every course.
type CourseFilter struct {
	Search       string // case-insensitive substring of the title; matched literally
	Category     string // exact category; empty means any
	FeaturedOnly bool   // only courses with IsFeatured set
}

// Matches reports whether c satisfies the filter.
func (f CourseFilter) Matches(c model.Course) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.FeaturedOnly && !c.IsFeatured {
		return false
	}
	return true
}

// CourseFilterFromValues builds the filter shared by the list and count
// endpoints.  "All" and the empty string both disable the category filter;
// the featured filter applies only when featured is exactly "true".
func CourseFilterFromValues(v url.Values) CourseFilter {
	f := CourseFilter{
		Search:       v.Get("search"),
		Category:     strings.TrimSpace(v.Get("category")),
		FeaturedOnly: v.Get("featured") == "true",
	}
	if f.Category == AllCategories {
		f.Category = ""
	}
	return f
}

// PageDefaults configures paging when the client omits parameters.
type PageDefaults struct {
	Size    int // page size used when "size" is absent
	MaxSize int // largest accepted page size; 0 disables the bound
}

// CourseListParams is the decoded form of the course listing query string.
type CourseListParams struct {
	Filter CourseFilter
	Sort   CourseSort
	Page   int
	Size   int
}

// ParseCourseListParams decodes page, size, search, category, sort and
// featured.  A malformed or out-of-range page or size yields an error
// wrapping ErrInvalidArgument.
func ParseCourseListParams(v url.Values, d PageDefaults) (CourseListParams, error) {
	p := CourseListParams{
		Filter: CourseFilterFromValues(v),
		Sort:   ParseCourseSort(v.Get("sort")),
		Page:   0,
		Size:   d.Size,
	}
	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%w: page must be an integer", ErrInvalidArgument)
		}
		p.Page = n
	}
	if raw := strings.TrimSpace(v.Get("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%w: size must be an integer", ErrInvalidArgument)
		}
		p.Size = n
	}
	if d.MaxSize > 0 && p.Size > d.MaxSize {
		return p, fmt.Errorf("%w: size must not exceed %d", ErrInvalidArgument, d.MaxSize)
	}
	return p, p.validate()
}

func (p CourseListParams) validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidArgument)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidArgument)
	}
	// page*size must fit the int64 skip.
	if int64(p.Page) > math.MaxInt64/int64(p.Size) {
		return fmt.Errorf("%w: page is out of range", ErrInvalidArgument)
	}
	return nil
}

// CourseQuery is a store-independent description of one page of courses:
// which records, in which order, and which window of the ordered result.
type CourseQuery struct {
	Filter CourseFilter
	Sort   CourseSort
	Skip   int64
	Limit  int64
}

// NewCourseQuery turns listing parameters into a query that skips
// page*size records and returns at most size of them.
func NewCourseQuery(p CourseListParams) (CourseQuery, error) {
	if err := p.validate(); err != nil {
		return CourseQuery{}, err
	}
	return CourseQuery{
		Filter: p.Filter,
		Sort:   ParseCourseSort(string(p.Sort)),
		Skip:   int64(p.Page) * int64(p.Size),
		Limit:  int64(p.Size),
	}, nil
}
