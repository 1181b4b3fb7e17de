package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Money formats a whole-real amount with thousands separators, e.g.
// R$1,234,568.
func Money(v float64) string {
	return "R$" + groupDigits(fmt.Sprintf("%.0f", v))
}

// Money2 keeps cents: R$1,234.56.
func Money2(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	return "R$" + groupDigits(s[:dot]) + s[dot:]
}

func Count(n int) string {
	return groupDigits(strconv.Itoa(n))
}

func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func Days(v float64) string {
	return fmt.Sprintf("%.1f days", v)
}

func Hours(v float64) string {
	return fmt.Sprintf("%.1f h", v)
}

func F1(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func F2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
		if n > head {
			b.WriteByte(',')
		}
	}
	for i := head; i < n; i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < n {
			b.WriteByte(',')
		}
	}
	return b.String()
}
