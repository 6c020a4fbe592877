package markdown

import (
	"bytes"
	"fmt"
	"sort"
)

// Edit replaces source[Start:End] with Replacement. Offsets always refer to
// the original source, so a set of edits can be collected from one AST walk
// and applied together without re-rendering the document.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits to source.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out bytes.Buffer
	out.Grow(len(source))
	cursor := 0
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return nil, fmt.Errorf("edit %d: invalid range [%d,%d)", i, e.Start, e.End)
		case e.End > len(source):
			return nil, fmt.Errorf("edit %d: range [%d,%d) exceeds source length %d", i, e.Start, e.End, len(source))
		case e.Start < cursor:
			return nil, fmt.Errorf("edit %d: overlaps previous edit", i)
		}
		out.Write(source[cursor:e.Start])
		out.Write(e.Replacement)
		cursor = e.End
	}
	out.Write(source[cursor:])
	return out.Bytes(), nil
}
