package views

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// PredictionResult is the body returned by the prediction service.
// The probabilities are expected to sum to ~1; nothing here enforces it.
type PredictionResult struct {
	Prediction          Label    `json:"prediction"`
	ProbabilityApproved *float64 `json:"probability_approved"`
	ProbabilityRejected *float64 `json:"probability_rejected"`
}

// MissingLabel is shown when the response carries no prediction field.
const MissingLabel Label = "undefined"

var errNotAnObject = errors.New("prediction response is not a JSON object")

// UnmarshalJSON accepts only a JSON object. Probabilities are read loosely:
// null counts as 0, numeric strings and booleans are converted, anything else
// becomes NaN. An absent probability stays nil.
func (r *PredictionResult) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errNotAnObject
	}
	// a literal null decodes into a nil map
	if raw == nil {
		return errNotAnObject
	}

	out := PredictionResult{Prediction: MissingLabel}
	if v, ok := raw["prediction"]; ok {
		if err := out.Prediction.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	if v, ok := raw["probability_approved"]; ok {
		out.ProbabilityApproved = probability(v)
	}
	if v, ok := raw["probability_rejected"]; ok {
		out.ProbabilityRejected = probability(v)
	}
	*r = out
	return nil
}

func probability(raw json.RawMessage) *float64 {
	var v any
	f := math.NaN()
	if err := json.Unmarshal(raw, &v); err == nil {
		switch t := v.(type) {
		case nil:
			f = 0
		case float64:
			f = t
		case bool:
			if t {
				f = 1
			} else {
				f = 0
			}
		case string:
			f = stringToNumber(t)
		}
	}
	return &f
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)

// stringToNumber converts a whole string the way a browser's Number() does:
// blank is 0, a decimal literal is its value, anything else is NaN.
func stringToNumber(s string) float64 {
	s = strings.TrimFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	if s == "" {
		return 0
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// Label is the predicted class as display text. The service may answer with a
// string, a number or a boolean. Numbers are printed in their shortest form.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	if !json.Valid(b) {
		return fmt.Errorf("invalid prediction label %q", b)
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*l = Label(formatNumber(f))
		return nil
	}
	// booleans, null, and composite values as written on the wire
	*l = Label(b)
	return nil
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.Abs(f) >= 1e21 || math.Abs(f) < 1e-6 {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		return strings.NewReplacer("e-0", "e-", "e+0", "e+").Replace(s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatPercent renders a fraction as a percentage with two decimals.
// A missing probability renders as "NaN%".
func FormatPercent(p *float64) string {
	if p == nil {
		return "NaN%"
	}
	switch {
	case math.IsInf(*p, 1):
		return "Infinity%"
	case math.IsInf(*p, -1):
		return "-Infinity%"
	}
	return fmt.Sprintf("%.2f%%", *p*100)
}
