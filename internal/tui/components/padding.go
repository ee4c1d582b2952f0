package components

import "strings"

// padCache holds the spaces strings most layouts need.
var padCache = func() [121]string {
	var c [121]string
	for i := range c {
		c[i] = strings.Repeat(" ", i)
	}
	return c
}()

// Pad returns n spaces. Negative widths yield an empty string.
func Pad(n int) string {
	switch {
	case n <= 0:
		return ""
	case n < len(padCache):
		return padCache[n]
	default:
		return strings.Repeat(" ", n)
	}
}
