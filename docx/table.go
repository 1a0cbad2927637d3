package docx

// Table is a positional view over one table block. Cell writes splice the
// underlying main part and refresh the view in place, so a Table stays
// usable across its own writes.
type Table struct {
	body  *Body
	index int
	raw   string
	rows  [][]span
}

// Table parses block i as a table.
func (b *Body) Table(i int) (*Table, error) {
	if i < 0 || i >= len(b.blocks) {
		return nil, ErrBlockRange
	}
	if b.blocks[i].Kind != BlockTable {
		return nil, ErrNotTable
	}
	t := &Table{body: b, index: i}
	t.reparse()
	return t, nil
}

func (t *Table) reparse() {
	t.raw = t.body.Raw(t.index)
	t.rows = nil
	start, end := contentRange(t.raw, span{start: 0, end: len(t.raw)})
	for _, row := range childSpans(t.raw, start, end, "w:tr") {
		rs, re := contentRange(t.raw, row)
		t.rows = append(t.rows, childSpans(t.raw, rs, re, "w:tc"))
	}
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.rows) }

// Cells returns the number of cells in row r.
func (t *Table) Cells(r int) int {
	if r < 0 || r >= len(t.rows) {
		return 0
	}
	return len(t.rows[r])
}

// CellText returns the flattened text of cell (r, c).
func (t *Table) CellText(r, c int) string {
	if r < 0 || r >= len(t.rows) || c < 0 || c >= len(t.rows[r]) {
		return ""
	}
	cell := t.rows[r][c]
	return innerText(t.raw[cell.start:cell.end])
}

// SetCellText writes text into cell (r, c) and refreshes the view. Other
// Table values over the same body are stale afterwards.
func (t *Table) SetCellText(r, c int, text string) error {
	if r < 0 || r >= len(t.rows) || c < 0 || c >= len(t.rows[r]) {
		return ErrCellRange
	}
	cell := t.rows[r][c]
	updated := setCellText(t.raw[cell.start:cell.end], text)
	if err := t.body.ReplaceBlock(t.index, t.raw[:cell.start]+updated+t.raw[cell.end:]); err != nil {
		return err
	}
	t.reparse()
	return nil
}
