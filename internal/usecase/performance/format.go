package performance

// FormatPercent renders a cell for display: round half away from zero to one
// decimal, strip a trailing .0, prefix positive values with +, and render a
// non-applicable change as the ~ placeholder. Exact zero is a bare 0% with no
// sign.
func FormatPercent(c Cell) string {
	if !c.Applicable {
		return "~"
	}
	rounded := c.Percent.Round(1)
	if rounded.IsZero() {
		return "0%"
	}
	var s string
	if rounded.IsInteger() {
		s = rounded.Truncate(0).String()
	} else {
		s = rounded.StringFixed(1)
	}
	if rounded.Sign() > 0 {
		s = "+" + s
	}
	return s + "%"
}
