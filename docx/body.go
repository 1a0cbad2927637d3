package docx

import (
	"sort"
	"strings"
)

// BlockKind classifies a top-level body child.
type BlockKind int

const (
	BlockOther BlockKind = iota
	BlockParagraph
	BlockTable
	BlockSectPr
)

// Block is one top-level body child, held as an offset span into the
// scanned main-part XML.
type Block struct {
	Kind       BlockKind
	start, end int
}

// Body is a positional snapshot of the document body. Reads are cheap;
// every write splices the main part and rescans, so block indices from
// before a write must not be reused after it.
type Body struct {
	doc    *Document
	xml    string
	blocks []Block
}

// Body scans the main part into a block snapshot. Documents without a
// body element report ErrNoBody.
func (d *Document) Body() (*Body, error) {
	b := &Body{doc: d}
	if err := b.rescan(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Body) rescan() error {
	xml := b.doc.Main()
	start, end, ok := bodyRange(xml)
	if !ok {
		return ErrNoBody
	}
	b.xml = xml
	b.blocks = scanBlocks(xml, start, end)
	return nil
}

// scanBlocks lists the top-level element children of [start, end).
func scanBlocks(xml string, start, end int) []Block {
	var blocks []Block
	for i := start; i < end; {
		lt := strings.Index(xml[i:end], "<")
		if lt < 0 {
			break
		}
		lt += i
		if lt+1 >= end || xml[lt+1] == '/' {
			break
		}
		if xml[lt+1] == '!' || xml[lt+1] == '?' {
			skip := skipMarkup(xml, lt)
			if skip < 0 {
				break
			}
			i = skip
			continue
		}
		elemEnd := elementEnd(xml, lt)
		if elemEnd < 0 || elemEnd > end {
			break
		}
		kind := BlockOther
		switch tagName(xml, lt) {
		case "w:p":
			kind = BlockParagraph
		case "w:tbl":
			kind = BlockTable
		case "w:sectPr":
			kind = BlockSectPr
		}
		blocks = append(blocks, Block{Kind: kind, start: lt, end: elemEnd})
		i = elemEnd
	}
	return blocks
}

// Len returns the number of top-level blocks.
func (b *Body) Len() int { return len(b.blocks) }

// Kind returns the kind of block i.
func (b *Body) Kind(i int) BlockKind {
	if i < 0 || i >= len(b.blocks) {
		return BlockOther
	}
	return b.blocks[i].Kind
}

// Text returns the flattened text content of block i.
func (b *Body) Text(i int) string {
	if i < 0 || i >= len(b.blocks) {
		return ""
	}
	blk := b.blocks[i]
	return innerText(b.xml[blk.start:blk.end])
}

// Raw returns the XML span of block i.
func (b *Body) Raw(i int) string {
	if i < 0 || i >= len(b.blocks) {
		return ""
	}
	blk := b.blocks[i]
	return b.xml[blk.start:blk.end]
}

// Paragraphs returns the indices of paragraph blocks in document order.
func (b *Body) Paragraphs() []int { return b.kindIndices(BlockParagraph) }

// Tables returns the indices of table blocks in document order.
func (b *Body) Tables() []int { return b.kindIndices(BlockTable) }

func (b *Body) kindIndices(kind BlockKind) []int {
	var out []int
	for i, blk := range b.blocks {
		if blk.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// ReplaceBlock swaps block i for raw and rescans. Earlier indices stay
// valid only because the snapshot is rebuilt; callers holding old indices
// past this call are on their own.
func (b *Body) ReplaceBlock(i int, raw string) error {
	if i < 0 || i >= len(b.blocks) {
		return ErrBlockRange
	}
	blk := b.blocks[i]
	b.doc.SetMain(b.xml[:blk.start] + raw + b.xml[blk.end:])
	return b.rescan()
}

// SetParagraphText writes text into paragraph block i, overwriting its
// first run and clearing the rest, or appending a run to an empty
// paragraph.
func (b *Body) SetParagraphText(i int, text string) error {
	if i < 0 || i >= len(b.blocks) {
		return ErrBlockRange
	}
	blk := b.blocks[i]
	if blk.Kind != BlockParagraph {
		return ErrBlockRange
	}
	return b.ReplaceBlock(i, setParagraphText(b.xml[blk.start:blk.end], text))
}

// Remove splices out the listed blocks, highest index first so earlier
// spans stay valid while later ones go. Duplicate indices are collapsed.
func (b *Body) Remove(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	uniq := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(b.blocks) {
			return ErrBlockRange
		}
		if !seen[i] {
			seen[i] = true
			uniq = append(uniq, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(uniq)))
	xml := b.xml
	for _, i := range uniq {
		blk := b.blocks[i]
		xml = xml[:blk.start] + xml[blk.end:]
	}
	b.doc.SetMain(xml)
	return b.rescan()
}
