package xlsx

// SharedStrings deduplicates text cell content across the whole
// workbook. Strings keep their insertion order; the index handed out
// for a string never changes. The table lives exactly as long as its
// Workbook and is serialized once at close.
type SharedStrings struct {
	strings []string
	index   map[string]int
	refs    int
}

func newSharedStrings() *SharedStrings {
	return &SharedStrings{index: map[string]int{}}
}

// Add returns the stable index for s, inserting it on first use. Every
// call counts as one reference, duplicates included.
func (t *SharedStrings) Add(s string) int {
	t.refs++
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	return i
}

// UniqueCount is the number of distinct strings in the table.
func (t *SharedStrings) UniqueCount() int { return len(t.strings) }

// RefCount is the total number of Add calls, duplicates included.
func (t *SharedStrings) RefCount() int { return t.refs }
