package pkg

const (
	HeaderTraceId string = "X-Trace-Id"
	TraceId       string = "trace_id" // gin context and log field key
)

// PredictPath is the fixed path of the remote prediction endpoint.
const PredictPath = "/predict"

// NumericFields are the form fields sent to the prediction service as numbers.
// Every other field is forwarded as the raw string.
var NumericFields = []string{"CHILDREN", "Annual_income", "Birthday_count", "Employed_days", "Family_Members"}

type PanelKind string

const (
	PanelKindResult PanelKind = "result"
	PanelKindError  PanelKind = "error"
)
