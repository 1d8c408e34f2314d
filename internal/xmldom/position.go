package xmldom

import "fmt"

// Position locates a node in its original source file. Line and Column are
// 1-based; Offset is the byte offset into the file. The zero value means
// "position unknown" and renders as such.
type Position struct {
	Line   int
	Column int
	Offset int64
}

// Unknown reports whether the position carries no location information.
func (p Position) Unknown() bool {
	return p.Line == 0
}

// String renders the position as "line:column" or "unknown position".
func (p Position) String() string {
	if p.Unknown() {
		return "unknown position"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// lineIndex converts byte offsets to line/column pairs. It is built once per
// parsed document from the raw input bytes.
type lineIndex struct {
	// starts[i] is the byte offset of the first byte of line i+1.
	starts []int64
}

func newLineIndex(data []byte) *lineIndex {
	idx := &lineIndex{starts: []int64{0}}
	for i, b := range data {
		if b == '\n' {
			idx.starts = append(idx.starts, int64(i)+1)
		}
	}
	return idx
}

// position resolves a byte offset into a Position. Offsets past the end of
// input clamp to the last line.
func (idx *lineIndex) position(offset int64) Position {
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{
		Line:   lo + 1,
		Column: int(offset-idx.starts[lo]) + 1,
		Offset: offset,
	}
}
