package views

import (
	"strings"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
)

// Panel is what the result display region shows.
type Panel struct {
	Visible             bool          `json:"visible"`
	Kind                pkg.PanelKind `json:"kind,omitempty"`
	Prediction          string        `json:"prediction,omitempty"`
	ProbabilityApproved string        `json:"probabilityApproved,omitempty"`
	ProbabilityRejected string        `json:"probabilityRejected,omitempty"`
	Message             string        `json:"message,omitempty"`
}

func ResultPanel(r PredictionResult) Panel {
	return Panel{
		Visible:             true,
		Kind:                pkg.PanelKindResult,
		Prediction:          string(r.Prediction),
		ProbabilityApproved: FormatPercent(r.ProbabilityApproved),
		ProbabilityRejected: FormatPercent(r.ProbabilityRejected),
	}
}

func ErrorPanel(description string) Panel {
	return Panel{
		Visible: true,
		Kind:    pkg.PanelKindError,
		Message: "An error occurred: " + description,
	}
}

// Text renders the panel as plain lines, the same content the HTML panel shows.
func (p Panel) Text() string {
	switch p.Kind {
	case pkg.PanelKindResult:
		return strings.Join([]string{
			"Prediction Result",
			"Prediction: " + p.Prediction,
			"Probability of approval: " + p.ProbabilityApproved,
			"Probability of rejection: " + p.ProbabilityRejected,
		}, "\n")
	case pkg.PanelKindError:
		return p.Message
	default:
		return ""
	}
}
