package repository

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/educare-hub/internal/model"
)

var defaults = PageDefaults{Size: 8, MaxSize: 100}

func TestParseCourseListParamsDefaults(t *testing.T) {
	p, err := ParseCourseListParams(url.Values{}, defaults)
	require.NoError(t, err)

	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 8, p.Size)
	assert.Equal(t, SortNewest, p.Sort)
	assert.Equal(t, CourseFilter{}, p.Filter)
}

func TestCourseFilterFromValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  CourseFilter
	}{
		{"empty", "", CourseFilter{}},
		{"all category is no filter", "category=All", CourseFilter{}},
		{"category", "category=Design", CourseFilter{Category: "Design"}},
		{"featured true", "featured=true", CourseFilter{FeaturedOnly: true}},
		{"featured other value", "featured=yes", CourseFilter{}},
		{"featured false", "featured=false", CourseFilter{}},
		{"search kept verbatim", "search=C%2B%2B", CourseFilter{Search: "C++"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, CourseFilterFromValues(v))
		})
	}
}

func TestParseCourseSortFallsBack(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseCourseSort("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseCourseSort("price-desc"))
	assert.Equal(t, SortNewest, ParseCourseSort("createdAt"))
	assert.Equal(t, SortNewest, ParseCourseSort("title"))
	assert.Equal(t, SortNewest, ParseCourseSort(""))
}

func TestParseCourseListParamsRejectsBadWindow(t *testing.T) {
	for _, q := range []string{"size=0", "size=-3", "page=-1", "page=abc", "size=1.5", "size=101"} {
		t.Run(q, func(t *testing.T) {
			v, err := url.ParseQuery(q)
			require.NoError(t, err)
			_, err = ParseCourseListParams(v, defaults)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestNewCourseQueryWindow(t *testing.T) {
	v, _ := url.ParseQuery("page=3&size=5&sort=price-desc&search=go")
	p, err := ParseCourseListParams(v, defaults)
	require.NoError(t, err)

	q, err := NewCourseQuery(p)
	require.NoError(t, err)
	assert.Equal(t, int64(15), q.Skip)
	assert.Equal(t, int64(5), q.Limit)
	assert.Equal(t, SortPriceDesc, q.Sort)
	assert.Equal(t, "go", q.Filter.Search)
}

func TestNewCourseQueryValidatesDirectParams(t *testing.T) {
	_, err := NewCourseQuery(CourseListParams{Size: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCourseFilterMatches(t *testing.T) {
	c := model.Course{Title: "Intro to Python", Category: "Programming", IsFeatured: false}

	assert.True(t, CourseFilter{}.Matches(c))
	assert.True(t, CourseFilter{Search: "PYTHON"}.Matches(c))
	assert.True(t, CourseFilter{Search: "to py"}.Matches(c))
	assert.False(t, CourseFilter{Search: "py.hon"}.Matches(c))
	assert.False(t, CourseFilter{Category: "Design"}.Matches(c))
	assert.False(t, CourseFilter{FeaturedOnly: true}.Matches(c))
}

func TestCourseSortLess(t *testing.T) {
	now := time.Now()
	older := model.Course{ID: "a", Price: 30, CreatedAt: now.Add(-time.Hour)}
	newer := model.Course{ID: "b", Price: 10, CreatedAt: now}

	assert.True(t, SortNewest.Less(newer, older))
	assert.True(t, SortPriceAsc.Less(newer, older))
	assert.True(t, SortPriceDesc.Less(older, newer))

	tieA := model.Course{ID: "a", Price: 5}
	tieB := model.Course{ID: "b", Price: 5}
	assert.True(t, SortPriceAsc.Less(tieA, tieB))
	assert.False(t, SortPriceAsc.Less(tieB, tieA))
}

func TestParseCourseListParamsRejectsOverflowingPage(t *testing.T) {
	for _, q := range []string{
		"page=4611686018427387904&size=8",
		"page=1152921504606846977&size=8",
		"page=9223372036854775807&size=2",
	} {
		t.Run(q, func(t *testing.T) {
			v, err := url.ParseQuery(q)
			require.NoError(t, err)
			_, err = ParseCourseListParams(v, defaults)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	v, _ := url.ParseQuery("page=1152921504606846975&size=8")
	p, err := ParseCourseListParams(v, defaults)
	require.NoError(t, err)
	q, err := NewCourseQuery(p)
	require.NoError(t, err)
	assert.Equal(t, int64(1152921504606846975)*8, q.Skip)
	assert.Positive(t, q.Skip)
}
