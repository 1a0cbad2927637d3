package docx

import "errors"

var (
	// ErrNotWordDocument marks an archive without a main document part.
	ErrNotWordDocument = errors.New("docx: archive has no word/document.xml")

	// ErrNoBody marks a main part without a body element.
	ErrNoBody = errors.New("docx: document has no body")

	// ErrBlockRange marks a block index outside the scanned body.
	ErrBlockRange = errors.New("docx: block index out of range")

	// ErrNotTable marks a table operation on a non-table block.
	ErrNotTable = errors.New("docx: block is not a table")

	// ErrCellRange marks a row or cell index outside a table.
	ErrCellRange = errors.New("docx: cell index out of range")

	// ErrMissingPart marks a referenced part absent from the archive.
	ErrMissingPart = errors.New("docx: referenced part missing")
)
