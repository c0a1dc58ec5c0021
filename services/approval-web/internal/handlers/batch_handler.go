package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/utils"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/services"
	"go.uber.org/zap"
)

type BatchHandler struct {
	logger         *zap.Logger
	service        services.BatchService
	maxUploadBytes int64
}

func NewBatchHandler(logger *zap.Logger, svc services.BatchService, maxUploadBytes int64) *BatchHandler {
	return &BatchHandler{logger: logger, service: svc, maxUploadBytes: maxUploadBytes}
}

func (h *BatchHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/upload", h.ShowUpload)
	r.POST("/upload", h.UploadCSV)
}

func (h *BatchHandler) ShowUpload(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{})
}

// UploadCSV godoc
// @Summary      Predict every row of a CSV file
// @Description  The header row names the form fields. The file is processed in memory and not stored.
// @Tags         predictions
// @Accept       multipart/form-data
// @Produce      json,html
// @Param        file  formData  file  true  "CSV file"
// @Success      200  {object}  views.BatchResult
// @Failure      400  {object}  pkg.ErrorResponse
// @Router       /upload [post]
func (h *BatchHandler) UploadCSV(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "file too large", err))
			return
		}
		// no file part: back to the form
		c.Redirect(http.StatusFound, "/upload")
		return
	}
	if fileHeader.Filename == "" {
		c.Redirect(http.StatusFound, "/upload")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, pkg.ErrUnsupportedUpload.Error(), pkg.ErrUnsupportedUpload))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "unreadable upload", err))
		return
	}
	defer file.Close()

	result, err := h.service.PredictCSV(c.Request.Context(), traceID, file)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  []string{binding.MIMEHTML, binding.MIMEJSON},
		HTMLName: "batch.html",
		HTMLData: result,
		JSONData: result,
	})
}

// respondError answers with the upload page for browsers and an ErrorResponse for API clients.
func (h *BatchHandler) respondError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.Negotiate(resp.Status, gin.Negotiate{
		Offered:  []string{binding.MIMEHTML, binding.MIMEJSON},
		HTMLName: "upload.html",
		HTMLData: gin.H{"Error": resp.Message},
		JSONData: resp,
	})
	c.Abort()
}
