package tui

// CyclePage steps the group page by delta, wrapping at both ends.
func CyclePage(page, delta, n int) int {
	if n <= 0 {
		return 0
	}
	page = (page + delta) % n
	if page < 0 {
		page += n
	}
	return page
}

// ClampCursor keeps the cursor inside [0, n); an empty list pins it at 0.
func ClampCursor(cursor, n int) int {
	if n <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
