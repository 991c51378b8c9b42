package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedStringsDedup(t *testing.T) {
	tbl := newSharedStrings()

	first := tbl.Add("Name")
	again := tbl.Add("Name")
	assert.Equal(t, first, again)
	assert.Equal(t, 1, tbl.UniqueCount())
	assert.Equal(t, 2, tbl.RefCount())

	second := tbl.Add("Title")
	assert.Equal(t, first+1, second)
	assert.Equal(t, 2, tbl.UniqueCount())
	assert.Equal(t, 3, tbl.RefCount())
}

func TestSharedStringsIndicesAreStable(t *testing.T) {
	tbl := newSharedStrings()
	words := []string{"a", "b", "c", "a", "b", "d"}
	want := []int{0, 1, 2, 0, 1, 3}
	for i, w := range words {
		assert.Equal(t, want[i], tbl.Add(w))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, tbl.strings)
	assert.Equal(t, 6, tbl.RefCount())
	assert.Equal(t, 4, tbl.UniqueCount())

	// unique count never exceeds total references
	assert.LessOrEqual(t, tbl.UniqueCount(), tbl.RefCount())
}

func TestSharedStringsExactMatchOnly(t *testing.T) {
	tbl := newSharedStrings()
	a := tbl.Add("Report")
	b := tbl.Add("report")
	c := tbl.Add("Report ")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, tbl.UniqueCount())
}
