package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/testutils"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, predictorURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &configs.Config{
		Port:                  "0",
		PredictionServiceAddr: predictorURL,
		SubmissionBurst:       1,
		BatchConcurrency:      2,
		MaxUploadBytes:        1 << 20,
	}
	h, err := NewHandlers(zap.NewNop(), cfg, nil)
	require.NoError(t, err)
	r, err := NewRouter(zap.NewNop(), h)
	require.NoError(t, err)
	return r
}

func applicationForm() url.Values {
	return url.Values{
		"GENDER":          {"M"},
		"Car_Owner":       {"Y"},
		"Propert_Owner":   {"Y"},
		"CHILDREN":        {"0"},
		"Annual_income":   {"180000"},
		"Type_Income":     {"Pensioner"},
		"EDUCATION":       {"Higher education"},
		"Marital_status":  {"Married"},
		"Housing_type":    {"House / apartment"},
		"Birthday_count":  {"-18772"},
		"Employed_days":   {"365243"},
		"Mobile_phone":    {"1"},
		"Work_Phone":      {"0"},
		"Phone":           {"0"},
		"EMAIL_ID":        {"0"},
		"Type_Occupation": {""},
		"Family_Members":  {"2"},
	}
}

func postForm(r http.Handler, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFormPage_RegionHiddenInitially(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	w := get(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="predictionForm"`)
	assert.Contains(t, w.Body.String(), `name="Annual_income"`)
	assert.Contains(t, w.Body.String(), "display: none;")
}

func TestSubmitForm_Success(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	w := postForm(r, "/", applicationForm(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	body := w.Body.String()
	assert.Contains(t, body, "display: block;")
	assert.Contains(t, body, "Prediction: Approved")
	assert.Contains(t, body, "80.00%")
	assert.Contains(t, body, "20.00%")

	sent := stub.LastBody()
	assert.Equal(t, 180000.0, sent["Annual_income"])
	assert.Equal(t, "M", sent["GENDER"])
	assert.Equal(t, "1", sent["Mobile_phone"])
	assert.Equal(t, "application/json", stub.LastContentType())
	assert.Equal(t, w.Header().Get(pkg.HeaderTraceId), stub.LastTraceID())
}

func TestSubmitForm_ServerErrorKeepsPageUsable(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusInternalServerError, ``)
	r := newTestRouter(t, stub.URL)

	w := postForm(r, "/", applicationForm(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "An error occurred: HTTP error! status: 500")
	assert.Contains(t, body, "display: block;")
	assert.Contains(t, body, `id="predictionForm"`)
	assert.Contains(t, body, `value="180000"`, "entered values are kept for a retry")
}

func TestSubmitForm_NetworkFailure(t *testing.T) {
	r := newTestRouter(t, testutils.ClosedServerURL(t))

	w := postForm(r, "/", applicationForm(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred: Post")
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestResultRegion_SharedAcrossRequests(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	_ = postForm(r, "/", applicationForm(), "")

	w := get(r, "/result", "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	var panel map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &panel))
	assert.Equal(t, true, panel["visible"])
	assert.Equal(t, "Approved", panel["prediction"])
	assert.Equal(t, "80.00%", panel["probabilityApproved"])

	w = get(r, "/result", "")
	assert.Contains(t, w.Body.String(), "Probability of rejection: 20.00%")

	w = get(r, "/", "")
	assert.Contains(t, w.Body.String(), "display: block;")
}

func TestCreatePrediction_API(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	form := applicationForm()
	form.Set("Birthday_count", "unknown")
	w := postForm(r, "/api/v1/predictions", form, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	var out pkg.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.TraceID)
	assert.Equal(t, "success", out.Data["outcome"])
	assert.Nil(t, stub.LastBody()["Birthday_count"])
	assert.Contains(t, stub.LastBody(), "Birthday_count")
}

func TestCreatePrediction_APIFailure(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusInternalServerError, ``)
	r := newTestRouter(t, stub.URL)

	w := postForm(r, "/api/v1/predictions", applicationForm(), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	var out pkg.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "failed", out.Data["outcome"])
	panel := out.Data["panel"].(map[string]any)
	assert.Contains(t, panel["message"], "500")
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCSV(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	csv := "GENDER,CHILDREN,Annual_income,Birthday_count,Employed_days,Family_Members\nM,0,180000,-18772,365243,2\nF,1,315000,-13557,-586,3\n"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "applicants.CSV", csv))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<th>Status</th>")
	assert.Contains(t, body, "<td>315000</td>")
	assert.Contains(t, body, "<td>80.00%</td>")
	assert.Equal(t, 2, stub.Requests())
}

func TestUploadCSV_JSON(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	req := uploadRequest(t, "applicants.csv", "CHILDREN\n2\n")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []any{"CHILDREN", "Status", "Probability"}, out["columns"])
	assert.Equal(t, 2.0, stub.LastBody()["CHILDREN"])
}

func TestUploadCSV_RejectsOtherExtensions(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "applicants.xlsx", "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only .csv files are accepted")
	assert.Equal(t, 0, stub.Requests())
}

func TestUploadCSV_MissingFileRedirects(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/upload", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	stub := testutils.StartPredictorStub(t, http.StatusOK, testutils.ApprovedBody)
	r := newTestRouter(t, stub.URL)

	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
