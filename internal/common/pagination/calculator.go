package pagination

// CalculateOffset calculates the database OFFSET value based on page number and limit.
// Page numbers are 1-based, so page 1 has offset 0.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages calculates the total number of pages based on total items and limit.
// Uses ceiling division to ensure all items are included.
//
// An empty history still reports one page so clients always get a valid
// page range.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1 // Always at least 1 page
	}
	// Ceiling division: (total + limit - 1) / limit
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return totalPages
}
