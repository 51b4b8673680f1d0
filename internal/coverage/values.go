package coverage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedNumber is wrapped by every NumberError.
var ErrMalformedNumber = errors.New("malformed number")

// NumberError reports a statistic cell whose text is not a number.
type NumberError struct {
	Location string
	Category Category
	Text     string
	Err      error
}

func (e *NumberError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s value: %v", e.Location, e.Category, e.Err)
	}
	return fmt.Sprintf("%s: %s value %q is not a number", e.Location, e.Category, e.Text)
}

func (e *NumberError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedNumber
}

const percentSuffix = " %"

// ParseValue parses a statistic cell. A literal trailing " %" is stripped,
// then the remainder must be a finite decimal number such as "85.7", "-3" or "1e3".
func ParseValue(text string) (float64, error) {
	text = strings.TrimSuffix(text, percentSuffix)
	if !isDecimal(text) {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrMalformedNumber, text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedNumber, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedNumber, text)
	}
	return v, nil
}

// isDecimal rejects the inputs strconv accepts beyond plain decimals:
// NaN, Inf, hex floats and digit separators.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; !(c >= '0' && c <= '9') && c != '-' && c != '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
