package utils

import "fmt"

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatBytes converts a byte count to a kilobyte/megabyte/gigabyte/terabyte equivalent string
func FormatBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < len(sizeUnits)-1; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), sizeUnits[exp])
}
