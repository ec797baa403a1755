package currency

import (
	"fmt"
	"math"
)

// FormatEUR renders a fare amount as e.g. "EUR 1,234.56" for CLI and log
// output. Amounts are rounded to cents.
func FormatEUR(amount float64) string {
	rounded := math.Round(amount*100) / 100

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	whole := math.Floor(rounded)
	cents := int(math.Round((rounded - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	intStr := fmt.Sprintf("%.0f", whole)
	formatted := fmt.Sprintf("%s.%02d", addThousandsSeparator(intStr, ","), cents)

	result := "EUR " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
