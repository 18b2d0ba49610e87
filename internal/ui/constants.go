// Package ui provides shared UI layout constants.
package ui

const (
	// ScrollMargin is the number of rows kept visible above/below the cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// StatusHeight is the single status/help line at the bottom.
	StatusHeight = 1

	// ColumnGap separates the title, artist and duration columns.
	ColumnGap = 2

	// DurationWidth fits m:ss up to 999:59.
	DurationWidth = 6
)
