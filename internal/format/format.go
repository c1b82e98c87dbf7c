// Package format renders sizes and durations for humans.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const kib = 1024.0

// byteUnits is ordered from the largest unit down.
var byteUnits = []struct {
	suffix string
	size   float64
}{
	{"TiB", kib * kib * kib * kib},
	{"GiB", kib * kib * kib},
	{"MiB", kib * kib},
	{"KiB", kib},
}

// FormatBytes formats a byte count using the largest binary unit the value
// reaches, e.g. 1536 becomes "1.50 KiB". Plain bytes have no decimals.
func FormatBytes(bytes uint64) string {
	value := float64(bytes)
	for _, unit := range byteUnits {
		if value >= unit.size {
			return fmt.Sprintf("%.2f %s", value/unit.size, unit.suffix)
		}
	}
	return fmt.Sprintf("%d B", bytes)
}

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// durationUnits is ordered from the largest unit down.
var durationUnits = []struct {
	suffix string
	size   time.Duration
}{
	{"w", week},
	{"d", day},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// FormatDuration formats a duration in the compact 1w2d3h4m5s form.
// Components that are zero are left out. Durations that are not positive
// are reported as expired.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "*expired*"
	}

	secs := d.Truncate(time.Second)
	var b strings.Builder
	for _, unit := range durationUnits {
		amount := secs / unit.size
		if amount == 0 {
			continue
		}
		secs -= amount * unit.size
		b.WriteString(strconv.FormatInt(int64(amount), 10))
		b.WriteString(unit.suffix)
	}

	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// ParseDuration parses the form produced by FormatDuration. A bare number is
// taken as seconds.
func ParseDuration(s string) (time.Duration, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.IndexFunc(input, notDigit) == -1 {
		n, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: too large", s)
		}
		total, ok := addUnits(0, n, time.Second)
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: too large", s)
		}
		return total, nil
	}

	var total time.Duration
	for len(input) > 0 {
		end := strings.IndexFunc(input, notDigit)
		switch end {
		case -1:
			return 0, fmt.Errorf("invalid duration %q: missing unit after %s", s, input)
		case 0:
			return 0, fmt.Errorf("invalid duration %q: expected a number", s)
		}
		amount, err := strconv.ParseInt(input[:end], 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, fmt.Errorf("invalid duration %q: too large", s)
			}
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}

		size, ok := unitSize(input[end])
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, input[end])
		}
		if total, ok = addUnits(total, amount, size); !ok {
			return 0, fmt.Errorf("invalid duration %q: too large", s)
		}
		input = input[end+1:]
	}
	return total, nil
}

// addUnits returns total + amount*size, reporting false when the result
// does not fit in a Duration. amount must not be negative.
func addUnits(total time.Duration, amount int64, size time.Duration) (time.Duration, bool) {
	if amount < 0 || amount > math.MaxInt64/int64(size) {
		return 0, false
	}
	step := time.Duration(amount) * size
	if total > math.MaxInt64-step {
		return 0, false
	}
	return total + step, true
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

func unitSize(suffix byte) (time.Duration, bool) {
	for _, unit := range durationUnits {
		if unit.suffix[0] == suffix {
			return unit.size, true
		}
	}
	return 0, false
}
