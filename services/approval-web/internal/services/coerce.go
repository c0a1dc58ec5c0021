package services

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
)

// numericPrefix matches the longest leading decimal literal, the way a browser's parseFloat reads input.
var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseNumber converts form input to a float. Leading whitespace is skipped and
// trailing garbage ignored ("12abc" is 12); input without a numeric prefix is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)
	m := numericPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// out of range literals come back as ±Inf or 0 together with ErrRange
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// isJSSpace also covers the byte order mark, which browsers treat as whitespace.
func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// NewFormPayload builds the prediction request body from submitted form values.
// Every field is forwarded as its last submitted string; the numeric fields are
// then replaced by their parsed value, NaN included.
func NewFormPayload(form url.Values) views.FormPayload {
	payload := make(views.FormPayload, len(form)+len(pkg.NumericFields))
	for k, v := range views.LastValues(form) {
		payload[k] = v
	}
	for _, field := range pkg.NumericFields {
		raw, ok := payload[field].(string)
		if !ok {
			payload[field] = views.Number(math.NaN())
			continue
		}
		payload[field] = views.Number(ParseNumber(raw))
	}
	return payload
}
