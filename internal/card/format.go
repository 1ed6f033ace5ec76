package card

import (
	"math/big"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "3:04 PM · Jan 2, 2006"

// createdAtLayouts lists the timestamp shapes the syndication payload has
// used over time.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RubyDate,
}

// FormatCount abbreviates engagement counters: one decimal with K or M at the
// thousand and million thresholds, with a trailing ".0" dropped.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strings.TrimSuffix(fixedOne(float64(n)/1_000_000), ".0") + "M"
	case n >= 1_000:
		return strings.TrimSuffix(fixedOne(float64(n)/1_000), ".0") + "K"
	default:
		return strconv.Itoa(n)
	}
}

// fixedOne rounds x to one decimal place with ties going up, computed on the
// exact binary value of x.
func fixedOne(x float64) string {
	v := new(big.Float).SetPrec(128).SetFloat64(x)
	v.Mul(v, big.NewFloat(10))
	v.Add(v, big.NewFloat(0.5))
	tenths, _ := v.Int(nil)

	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return whole.String() + "." + frac.String()
}

// FormatTimestamp renders raw as "3:04 PM · Jan 2, 2006" in loc. Input that
// does not parse is returned unchanged.
func FormatTimestamp(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return ts.In(loc).Format(timestampLayout)
		}
	}
	return raw
}
