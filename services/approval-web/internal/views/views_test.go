package views

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber_MarshalJSON(t *testing.T) {
	payload := FormPayload{
		"CHILDREN":       Number(2),
		"Annual_income":  Number(180000.5),
		"Employed_days":  Number(math.NaN()),
		"Family_Members": Number(math.Inf(1)),
		"GENDER":         "F",
	}
	b, err := json.Marshal(payload)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"CHILDREN":2,"Annual_income":180000.5,"Employed_days":null,"Family_Members":null,"GENDER":"F"}`, string(b))
}

func TestPredictionResult_Decode(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		label string
	}{
		{"string label", `{"prediction":"Approved","probability_approved":0.8,"probability_rejected":0.2}`, "Approved"},
		{"numeric label", `{"prediction":1,"probability_approved":0.8,"probability_rejected":0.2}`, "1"},
		{"boolean label", `{"prediction":true,"probability_approved":0.8,"probability_rejected":0.2}`, "true"},
		{"float label in shortest form", `{"prediction":1.0}`, "1"},
		{"exponent label", `{"prediction":1e-7}`, "1e-7"},
		{"null label", `{"prediction":null}`, "null"},
		{"missing label", `{"probability_approved":0.8}`, "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r PredictionResult
			assert.NoError(t, json.Unmarshal([]byte(tt.body), &r))
			assert.Equal(t, Label(tt.label), r.Prediction)
		})
	}
}

func TestPredictionResult_LooseProbabilities(t *testing.T) {
	var r PredictionResult
	assert.NoError(t, json.Unmarshal([]byte(`{"prediction":"Approved","probability_approved":" 0.8 ","probability_rejected":null}`), &r))
	assert.Equal(t, "80.00%", FormatPercent(r.ProbabilityApproved))
	assert.Equal(t, "0.00%", FormatPercent(r.ProbabilityRejected))

	assert.NoError(t, json.Unmarshal([]byte(`{"probability_approved":"high","probability_rejected":true}`), &r))
	assert.Equal(t, "NaN%", FormatPercent(r.ProbabilityApproved))
	assert.Equal(t, "100.00%", FormatPercent(r.ProbabilityRejected))

	assert.NoError(t, json.Unmarshal([]byte(`{"prediction":"Rejected"}`), &r))
	assert.Nil(t, r.ProbabilityApproved)
	assert.Equal(t, "NaN%", FormatPercent(r.ProbabilityApproved))
}

func TestPredictionResult_RejectsNonObject(t *testing.T) {
	for _, body := range []string{`null`, `[]`, `"Approved"`, `42`} {
		var r PredictionResult
		assert.Error(t, json.Unmarshal([]byte(body), &r), "body %s", body)
	}
}

func TestResultPanel_Text(t *testing.T) {
	approved, rejected := 0.8, 0.2
	p := ResultPanel(PredictionResult{Prediction: "Approved", ProbabilityApproved: &approved, ProbabilityRejected: &rejected})

	assert.True(t, p.Visible)
	text := p.Text()
	assert.Contains(t, text, "Approved")
	assert.Contains(t, text, "80.00%")
	assert.Contains(t, text, "20.00%")
}

func TestFormatPercent_Missing(t *testing.T) {
	assert.Equal(t, "NaN%", FormatPercent(nil))
	v := 0.12345
	assert.Equal(t, "12.35%", FormatPercent(&v))
	inf := math.Inf(1)
	assert.Equal(t, "Infinity%", FormatPercent(&inf))
}

func TestErrorPanel(t *testing.T) {
	p := ErrorPanel(errors.New("HTTP error! status: 500").Error())
	assert.True(t, p.Visible)
	assert.Equal(t, "An error occurred: HTTP error! status: 500", p.Text())
}

func TestFormField_Numeric(t *testing.T) {
	numeric := 0
	for _, f := range CreditFormFields {
		if f.Numeric() {
			numeric++
		}
	}
	assert.Equal(t, 5, numeric)
}
