package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{name: "empty body", body: "", want: []int{}},
		{name: "no references", body: "just some prose", want: []int{}},
		{name: "closing keyword", body: "Fixes #42", want: []int{42}},
		{name: "closing keyword variants", body: "fixed #1, closes #2, resolved #3", want: []int{1, 2, 3}},
		{name: "dedup across mentions", body: "Fixes #42. See also #42.", want: []int{42}},
		{name: "dependency keywords", body: "Depends on #10 and blocked by #11, requires #12 after #13", want: []int{10, 11, 12, 13}},
		{name: "hierarchy keywords", body: "Part of #7, sub-issue of #8, child of #9", want: []int{7, 8, 9}},
		{name: "parent with colon", body: "Parent: #21", want: []int{21}},
		{name: "reference keywords", body: "Related to #30, see #31, refs #32, links to #33", want: []int{30, 31, 32, 33}},
		{name: "bare mention", body: "as discussed in #99", want: []int{99}},
		{name: "zero discarded", body: "see #0 and #5", want: []int{5}},
		{name: "case insensitive", body: "FIXES #42 DEPENDS ON #43", want: []int{42, 43}},
		{name: "mixed patterns dedup", body: "Fixes #1. Depends on #1. See #1. #1", want: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLinks(tt.body)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestSet(t *testing.T) {
	s := NewSet(3, 1, 2, 3)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(4))
	assert.Equal(t, []int{1, 2, 3}, s.Sorted())

	s.Add(4)
	assert.True(t, s.Has(4))
}
