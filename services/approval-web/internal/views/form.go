package views

import (
	"net/url"
	"slices"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
)

// FormField describes one input of the application form.
type FormField struct {
	Name    string
	Label   string
	Options []string // rendered as a select when set
}

func (f FormField) Numeric() bool {
	return slices.Contains(pkg.NumericFields, f.Name)
}

var yesNo = []string{"Y", "N"}
var binaryFlag = []string{"1", "0"}

// CreditFormFields is the field set of the approval form, in display order.
var CreditFormFields = []FormField{
	{Name: "GENDER", Label: "Gender", Options: []string{"M", "F"}},
	{Name: "Car_Owner", Label: "Car owner", Options: yesNo},
	{Name: "Propert_Owner", Label: "Property owner", Options: yesNo},
	{Name: "CHILDREN", Label: "Children"},
	{Name: "Annual_income", Label: "Annual income"},
	{Name: "Type_Income", Label: "Income type", Options: []string{"Working", "Commercial associate", "Pensioner", "State servant"}},
	{Name: "EDUCATION", Label: "Education", Options: []string{"Secondary / secondary special", "Higher education", "Incomplete higher", "Lower secondary", "Academic degree"}},
	{Name: "Marital_status", Label: "Marital status", Options: []string{"Married", "Single / not married", "Civil marriage", "Separated", "Widow"}},
	{Name: "Housing_type", Label: "Housing type", Options: []string{"House / apartment", "With parents", "Municipal apartment", "Rented apartment", "Office apartment", "Co-op apartment"}},
	{Name: "Birthday_count", Label: "Birthday count (days, negative)"},
	{Name: "Employed_days", Label: "Employed days"},
	{Name: "Mobile_phone", Label: "Mobile phone", Options: binaryFlag},
	{Name: "Work_Phone", Label: "Work phone", Options: binaryFlag},
	{Name: "Phone", Label: "Phone", Options: binaryFlag},
	{Name: "EMAIL_ID", Label: "Email", Options: binaryFlag},
	{Name: "Type_Occupation", Label: "Occupation"},
	{Name: "Family_Members", Label: "Family members"},
}

// LastValues flattens submitted values, keeping the last one per key.
func LastValues(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for k, vs := range form {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}
