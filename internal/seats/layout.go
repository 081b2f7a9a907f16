package seats

import "fmt"

// Theatre layout: rows A-J with 12 seats each. Every concert date gets the
// full grid; capacity is the denominator for occupancy percentages.
const (
	NumRows     = 10
	SeatsPerRow = 12

	// TheatreCapacity is the number of seats available for any one date
	TheatreCapacity = NumRows * SeatsPerRow
)

// Row pricing tiers, front to back
const (
	PricePremium  = 150.0 // rows A-C
	PriceStandard = 95.0  // rows D-G
	PriceBudget   = 55.0  // rows H-J
)

// RowLabels returns the row letters in stage order
func RowLabels() []rune {
	rows := make([]rune, 0, NumRows)
	for r := 'A'; r < 'A'+NumRows; r++ {
		rows = append(rows, r)
	}
	return rows
}

// PriceForRow returns the ticket price for a row letter
func PriceForRow(row rune) float64 {
	switch {
	case row <= 'C':
		return PricePremium
	case row <= 'G':
		return PriceStandard
	default:
		return PriceBudget
	}
}

// LayoutLabels returns every seat label in the theatre, e.g. "A1" through "J12"
func LayoutLabels() []string {
	labels := make([]string, 0, TheatreCapacity)
	for _, row := range RowLabels() {
		for n := 1; n <= SeatsPerRow; n++ {
			labels = append(labels, fmt.Sprintf("%c%d", row, n))
		}
	}
	return labels
}
