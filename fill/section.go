package fill

import (
	"strings"
	"unicode/utf8"
)

// Heading candidates are filtered on flattened block text: anything blank,
// longer than maxHeadingLen characters, or carrying a PAGEREF field
// instruction (a table-of-contents line) can never be a heading.
const maxHeadingLen = 220

const pagerefMarker = "PAGEREF"

// Body is the slice of a document the section remover needs: an ordered
// sequence of blocks it can read and splice. Implemented by docx.Body.
type Body interface {
	Len() int
	Text(i int) string
	Remove(indices []int) error
}

// SkeletonEntry is one recognized heading: the block it sits in and the
// canonical name it matched.
type SkeletonEntry struct {
	Block int
	Name  string
}

// Skeleton scans body for blocks matching the canonical headings and
// returns the ordered heading skeleton. A block matches a heading when its
// normalized text equals or contains the normalized heading; among several
// matches the longest raw heading wins, earliest in the list on ties.
func Skeleton(body Body, headings []string) []SkeletonEntry {
	type candidate struct {
		norm string
		name string
	}
	cands := make([]candidate, 0, len(headings))
	for _, h := range headings {
		n := Normalize(h)
		if n == "" {
			continue
		}
		cands = append(cands, candidate{norm: n, name: h})
	}

	var skeleton []SkeletonEntry
	for i := 0; i < body.Len(); i++ {
		text := strings.TrimSpace(body.Text(i))
		if text == "" || utf8.RuneCountInString(text) > maxHeadingLen || strings.Contains(text, pagerefMarker) {
			continue
		}
		nt := Normalize(text)
		if nt == "" {
			continue
		}
		best := -1
		for c, cand := range cands {
			if nt != cand.norm && !strings.Contains(nt, cand.norm) {
				continue
			}
			if best < 0 || len(cand.name) > len(cands[best].name) {
				best = c
			}
		}
		if best >= 0 {
			skeleton = append(skeleton, SkeletonEntry{Block: i, Name: cands[best].name})
		}
	}
	return skeleton
}

// ClearSections removes every section named in remove from body, where a
// section spans from its recognized heading up to the next recognized
// heading or the end of the body. Names never matched by a heading are
// ignored. Returns the number of blocks removed.
func ClearSections(body Body, remove []string, headings []string) (int, error) {
	if len(remove) == 0 {
		return 0, nil
	}
	drop := make(map[string]bool, len(remove))
	for _, name := range remove {
		if n := Normalize(name); n != "" {
			drop[n] = true
		}
	}
	if len(drop) == 0 {
		return 0, nil
	}

	skeleton := Skeleton(body, headings)
	var marked []int
	for k, entry := range skeleton {
		if !drop[Normalize(entry.Name)] {
			continue
		}
		end := body.Len()
		if k+1 < len(skeleton) {
			end = skeleton[k+1].Block
		}
		for i := entry.Block; i < end; i++ {
			marked = append(marked, i)
		}
	}
	if len(marked) == 0 {
		return 0, nil
	}
	if err := body.Remove(marked); err != nil {
		return 0, err
	}
	return len(marked), nil
}
