package views

// BatchRow is one CSV row with its prediction outcome.
type BatchRow struct {
	Values      []string `json:"values"`
	Status      string   `json:"status,omitempty"`
	Probability string   `json:"probability,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// BatchResult is the table rendered for a CSV upload.
type BatchResult struct {
	Columns []string   `json:"columns"`
	Rows    []BatchRow `json:"rows"`
	Failed  int        `json:"failed"`
}
