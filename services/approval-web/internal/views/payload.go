package views

import (
	"encoding/json"
	"math"
)

// FormPayload is the request body sent to the prediction service: field name to string or Number.
type FormPayload map[string]any

// Number is a coerced form value. Non-finite values are encoded as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// IsNaN reports whether the value failed to parse.
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}
