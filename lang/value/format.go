package value

import "strconv"

// formatFloat renders a number the way print shows it: the shortest
// decimal representation that round-trips back to the same float64.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
