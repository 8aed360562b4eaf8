package usecase

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with two decimals at most, dropping
// trailing zeros: 1536 -> "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	i := 0
	scale := int64(1)
	for i < len(sizeUnits)-1 && bytes >= scale*k {
		scale *= k
		i++
	}
	value := math.Round(float64(bytes)/float64(scale)*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
