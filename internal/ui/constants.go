// Package ui provides shared UI constants and utilities.
package ui

// Layout constants shared by the panels.
const (
	// ScrollMargin is the number of items kept visible above/below the cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// HeaderHeight is the space for header + separator in panels.
	HeaderHeight = 2

	// PanelOverhead is the total vertical overhead (border + header + separator).
	PanelOverhead = BorderHeight + HeaderHeight

	// QueueWidthDivisor gives the queue panel 1/QueueWidthDivisor of the width.
	QueueWidthDivisor = 3

	// MinQueueWidth is the narrowest the queue panel gets before it is hidden.
	MinQueueWidth = 30
)
