package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/utils"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/display"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/services"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
	"go.uber.org/zap"
)

const maxFormMemory = 1 << 20

type FormHandler struct {
	logger  *zap.Logger
	service services.SubmissionService
	region  *display.Region
}

func NewFormHandler(logger *zap.Logger, svc services.SubmissionService, region *display.Region) *FormHandler {
	return &FormHandler{logger: logger, service: svc, region: region}
}

// RegisterRoutes registers the form page, its submission and the result region.
func (h *FormHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.ShowForm)
	r.POST("/", h.SubmitForm)
	r.GET("/result", h.GetResult)
}

// RegisterAPIRoutes registers the JSON submission endpoint.
func (h *FormHandler) RegisterAPIRoutes(r *gin.RouterGroup) {
	r.POST("/predictions", h.CreatePrediction)
}

func (h *FormHandler) ShowForm(c *gin.Context) {
	h.renderPage(c, h.region.Snapshot(), nil)
}

// SubmitForm handles a browser form post. A failed prediction is not an HTTP
// error: the page comes back with the error shown in the result region.
func (h *FormHandler) SubmitForm(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		h.abortWithError(c, traceID, err)
		return
	}
	form, err := readForm(c)
	if err != nil {
		h.abortWithError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid form body", err))
		return
	}

	panel, _ := h.service.Submit(c.Request.Context(), traceID, form)
	h.renderPage(c, panel, form)
}

// CreatePrediction godoc
// @Summary      Submit the approval form
// @Description  Accepts the form fields (urlencoded or multipart), forwards them to the prediction service and returns the rendered result region. Prediction failures are reported inside the panel.
// @Tags         predictions
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  pkg.APIResponse
// @Failure      400  {object}  pkg.ErrorResponse
// @Router       /api/v1/predictions [post]
func (h *FormHandler) CreatePrediction(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		h.abortWithError(c, traceID, err)
		return
	}
	form, err := readForm(c)
	if err != nil {
		h.abortWithError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid form body", err))
		return
	}

	panel, err := h.service.Submit(c.Request.Context(), traceID, form)
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		TraceID: traceID,
		Data: map[string]interface{}{
			"outcome": outcome,
			"panel":   panel,
		},
	})
}

// GetResult godoc
// @Summary      Current result region
// @Tags         predictions
// @Produce      json,html
// @Success      200  {object}  views.Panel
// @Router       /result [get]
func (h *FormHandler) GetResult(c *gin.Context) {
	panel := h.region.Snapshot()
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  []string{binding.MIMEHTML, binding.MIMEJSON},
		HTMLName: "result.html",
		HTMLData: panel,
		JSONData: panel,
	})
}

func (h *FormHandler) renderPage(c *gin.Context, panel views.Panel, form url.Values) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Fields": views.CreditFormFields,
		"Values": views.LastValues(form),
		"Panel":  panel,
	})
}

func (h *FormHandler) abortWithError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.AbortWithStatusJSON(resp.Status, resp)
}

// readForm returns the posted fields of an urlencoded or multipart body.
// Query parameters and uploaded files are not part of the form.
func readForm(c *gin.Context) (url.Values, error) {
	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return url.Values(c.Request.MultipartForm.Value), nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}
