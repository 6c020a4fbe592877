package markdown

import (
	"bytes"
	"regexp"

	gmast "github.com/yuin/goldmark/ast"
)

// MaxHeadingLevel is the deepest Markdown heading.
const MaxHeadingLevel = 6

// heading locates one heading in the source.
type heading struct {
	node  *gmast.Heading
	start int // first byte of the heading block
	end   int // just past the heading block, trailing newline included
	// markerStart and markerEnd bound the run of '#' of an ATX heading;
	// both are -1 for setext headings.
	markerStart int
	markerEnd   int
}

func locateHeading(h *gmast.Heading, src []byte) (heading, bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return heading{}, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	loc := heading{node: h, markerStart: -1, markerEnd: -1}
	i := first.Start
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	j := i
	for j > 0 && src[j-1] == '#' {
		j--
	}
	if j < i {
		loc.markerStart, loc.markerEnd = j, i
		loc.start = lineStart(src, j)
		loc.end = lineEnd(src, last.Start)
		return loc, true
	}

	// Setext: the underline is the line after the last content line.
	loc.start = lineStart(src, first.Start)
	loc.end = lineEnd(src, lineEnd(src, last.Start))
	return loc, true
}

// emptyATX matches a heading line without text, such as "#" or "## ##".
var emptyATX = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+#*)?[ \t]*$`)

// emptyHeadingLines returns the marker bounds of every text-less ATX
// heading line outside code blocks, in source order.
func emptyHeadingLines(root gmast.Node, src []byte) [][2]int {
	ranges := codeRanges(root, src)
	var out [][2]int
	for pos := 0; pos < len(src); {
		next := lineEnd(src, pos)
		line := bytes.TrimRight(src[pos:next], "\r\n")
		if m := emptyATX.FindSubmatchIndex(line); m != nil && !inRanges(pos, ranges) {
			out = append(out, [2]int{pos + m[2], pos + m[3]})
		}
		pos = next
	}
	return out
}

func collectHeadings(root gmast.Node, src []byte) []heading {
	var out []heading
	var empty []*gmast.Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			if loc, ok := locateHeading(h, src); ok {
				out = append(out, loc)
			} else {
				empty = append(empty, h)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	// Text-less headings carry no source segments. They are paired with
	// their lines by order, and only when every one of them was found.
	if len(empty) > 0 {
		if lines := emptyHeadingLines(root, src); len(lines) == len(empty) {
			for i, h := range empty {
				out = append(out, heading{
					node:        h,
					start:       lineStart(src, lines[i][0]),
					end:         lineEnd(src, lines[i][0]),
					markerStart: lines[i][0],
					markerEnd:   lines[i][1],
				})
			}
		}
	}
	return out
}

// ShiftHeadings deepens every heading by delta levels, capped at level 6.
// Setext headings are rewritten as ATX headings.
func ShiftHeadings(src []byte, delta int) ([]byte, error) {
	if delta == 0 {
		return src, nil
	}
	var edits []Edit
	for _, h := range collectHeadings(Parse(src), src) {
		level := min(max(h.node.Level+delta, 1), MaxHeadingLevel)
		marker := bytes.Repeat([]byte{'#'}, level)
		if h.markerStart >= 0 {
			edits = append(edits, Edit{Start: h.markerStart, End: h.markerEnd, Replacement: marker})
			continue
		}
		repl := append(marker, ' ')
		repl = append(repl, plainText(h.node, src)...)
		repl = append(repl, '\n')
		edits = append(edits, Edit{Start: h.start, End: h.end, Replacement: repl})
	}
	return ApplyEdits(src, edits)
}

// RemoveDuplicateTitle drops the first top-level H1 when its text equals
// title. Other content is left as is.
func RemoveDuplicateTitle(src []byte, title string) ([]byte, error) {
	want := string(bytes.TrimSpace([]byte(title)))
	if want == "" {
		return src, nil
	}
	root := Parse(src)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		if plainText(h, src) != want {
			return src, nil
		}
		loc, ok := locateHeading(h, src)
		if !ok {
			return src, nil
		}
		out, err := ApplyEdits(src, []Edit{{Start: loc.start, End: loc.end}})
		if err != nil {
			return nil, err
		}
		return bytes.TrimLeft(out, "\n"), nil
	}
	return src, nil
}

// ForFullContent prepares a document body for concatenation below a
// "## title" heading: a leading duplicate title is removed and headings are
// shifted two levels down.
func ForFullContent(src []byte, title string) ([]byte, error) {
	out, err := RemoveDuplicateTitle(src, title)
	if err != nil {
		return nil, err
	}
	return ShiftHeadings(out, 2)
}
