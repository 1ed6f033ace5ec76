package tweets

import (
	"math"
	"strconv"
	"strings"
)

const radixDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// Token derives the syndication token for id: (id / 1e15) * π written in
// base 36 with every zero digit and the radix point removed. The endpoint
// compares it against the value browsers compute, so the base 36 rendering
// follows the shortest round-trip digits JavaScript engines produce.
func Token(id string) string {
	value := parseNumber(id) / 1e15 * math.Pi
	return strings.Map(func(r rune) rune {
		if r == '0' || r == '.' {
			return -1
		}
		return r
	}, formatRadix(value, 36))
}

// parseNumber mirrors numeric coercion of a digit string: blank is zero and
// anything unparsable is NaN.
func parseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil && !math.IsInf(value, 0) {
		return math.NaN()
	}
	return value
}

// formatRadix writes value in the given radix, emitting fraction digits only
// until the double is uniquely identified.
func formatRadix(value float64, radix int) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	}

	negative := value < 0
	if negative {
		value = -value
	}
	base := float64(radix)

	integer := math.Floor(value)
	fraction := value - integer
	delta := 0.5 * (math.Nextafter(value, math.Inf(1)) - value)
	delta = math.Max(math.SmallestNonzeroFloat64, delta)

	var fracDigits []byte
	if fraction >= delta {
		for {
			fraction *= base
			delta *= base
			digit := int(fraction)
			fracDigits = append(fracDigits, radixDigits[digit])
			fraction -= float64(digit)

			// Round half to even, carrying into earlier digits when needed.
			if (fraction > 0.5 || (fraction == 0.5 && digit&1 == 1)) && fraction+delta > 1 {
				fracDigits, integer = carry(fracDigits, integer, radix)
				break
			}
			if fraction < delta {
				break
			}
		}
	}

	var intDigits []byte
	// Digits below the precision of the double are written as zero.
	for integer/base >= 1<<53 {
		integer /= base
		intDigits = append(intDigits, '0')
	}
	for {
		remainder := math.Mod(integer, base)
		intDigits = append(intDigits, radixDigits[int(remainder)])
		integer = (integer - remainder) / base
		if integer <= 0 {
			break
		}
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i := len(intDigits) - 1; i >= 0; i-- {
		b.WriteByte(intDigits[i])
	}
	if len(fracDigits) > 0 {
		b.WriteByte('.')
		b.Write(fracDigits)
	}
	return b.String()
}

func carry(digits []byte, integer float64, radix int) ([]byte, float64) {
	for len(digits) > 0 {
		last := len(digits) - 1
		d := strings.IndexByte(radixDigits, digits[last])
		if d+1 < radix {
			digits[last] = radixDigits[d+1]
			return digits, integer
		}
		digits = digits[:last]
	}
	return digits, integer + 1
}
