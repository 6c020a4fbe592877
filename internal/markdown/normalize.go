package markdown

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"
)

// codeRanges returns the byte ranges covered by code blocks, whose content
// must never be normalized. Ranges start at the beginning of the first
// content line so indentation of nested blocks is covered too.
func codeRanges(root gmast.Node, src []byte) [][2]int {
	var out [][2]int
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch n.Kind() {
		case gmast.KindFencedCodeBlock, gmast.KindCodeBlock, gmast.KindHTMLBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				out = append(out, [2]int{lineStart(src, lines.At(0).Start), lines.At(lines.Len() - 1).Stop})
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// NormalizeGFM collapses runs of blank lines to one outside code blocks.
// Whitespace-only lines count as blank and are emptied.
func NormalizeGFM(src []byte) []byte {
	ranges := codeRanges(Parse(src), src)
	var out bytes.Buffer
	out.Grow(len(src))

	blank := 0
	for pos := 0; pos < len(src); {
		end := bytes.IndexByte(src[pos:], '\n')
		next := len(src)
		if end >= 0 {
			next = pos + end + 1
		}
		line := src[pos:next]
		if inRanges(pos, ranges) {
			blank = 0
			out.Write(line)
			pos = next
			continue
		}
		if len(bytes.TrimSpace(line)) == 0 {
			blank++
			if blank == 1 {
				out.WriteByte('\n')
			}
			pos = next
			continue
		}
		blank = 0
		out.Write(line)
		pos = next
	}
	return out.Bytes()
}
