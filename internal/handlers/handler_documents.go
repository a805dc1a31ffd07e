package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	// maxUploadBytes bounds every uploaded document.
	maxUploadBytes = 10 << 20
	uploadField    = "file"
	xlsxMimeType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// documentHandler serves backups, spreadsheets and invoice scans.
type documentHandler struct {
	backupService      portssvc.BackupSvcFacade
	spreadsheetService portssvc.SpreadsheetSvcFacade
	scanService        portssvc.ScanSvcFacade
}

func newDocumentHandler(bs portssvc.BackupSvcFacade, ss portssvc.SpreadsheetSvcFacade, sc portssvc.ScanSvcFacade) *documentHandler {
	return &documentHandler{backupService: bs, spreadsheetService: ss, scanService: sc}
}

func registerDocumentRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newDocumentHandler(services.Backup, services.Spreadsheet, services.Scan)

	backup := rg.Group("/backup")
	{
		backup.GET("", h.exportBackup)
		backup.POST("/restore", h.restoreBackup)
	}

	spreadsheet := rg.Group("/spreadsheet")
	{
		spreadsheet.GET("/template", h.spreadsheetTemplate)
		spreadsheet.POST("/preview", h.previewSpreadsheet)
		spreadsheet.POST("/import", h.importSpreadsheet)
		spreadsheet.GET("/export", h.exportSpreadsheet)
	}

	scan := rg.Group("/scan")
	{
		scan.GET("/status", h.scanStatus)
		scan.POST("/invoice", h.scanInvoice)
	}
}

// upload holds a document received either as a multipart file or as the raw body.
type upload struct {
	name     string
	mimeType string
	content  []byte
}

// readUpload reads the "file" part of a multipart form, or the whole body
// for any other content type.
func readUpload(c *gin.Context) (*upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile(uploadField)
		if err != nil {
			return nil, fmt.Errorf("missing %q form file: %w", uploadField, err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return &upload{name: fh.Filename, mimeType: fh.Header.Get("Content-Type"), content: content}, nil
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return &upload{mimeType: c.ContentType(), content: content}, nil
}

// uploadOrAbort reads the uploaded document or writes a 400.
func uploadOrAbort(c *gin.Context, logger *slog.Logger) (*upload, bool) {
	up, err := readUpload(c)
	if err != nil {
		logger.Warn("Failed to read upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid upload: " + err.Error()})
		return nil, false
	}
	if len(up.content) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Uploaded file is empty"})
		return nil, false
	}
	return up, true
}

func attachment(c *gin.Context, filename, mimeType string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, mimeType, content)
}

// exportBackup godoc
// @Summary Download a backup
// @Description Returns the whole register as a versioned JSON document
// @Tags backup
// @Produce json
// @Success 200 {object} dto.BackupDocument
// @Security BearerAuth
// @Router /backup [get]
func (h *documentHandler) exportBackup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	doc, err := h.backupService.Export(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to export backup")
		return
	}
	filename := fmt.Sprintf("cassa_backup_%s.json", doc.Date.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, doc)
}

// restoreBackup godoc
// @Summary Restore a backup
// @Description Replaces the register with a backup document. Legacy documents are converted.
// @Tags backup
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Backup document"
// @Success 200 {object} dto.RestoreResult
// @Failure 400 {object} ErrorResponse "Not a backup of this application"
// @Security BearerAuth
// @Router /backup/restore [post]
func (h *documentHandler) restoreBackup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	up, ok := uploadOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.backupService.Restore(c.Request.Context(), ownerID, up.content)
	if err != nil {
		respondError(c, logger, err, "Failed to restore backup")
		return
	}
	logger.Info("Backup restored", slog.Int("source_version", result.SourceVersion), slog.Int("entries", result.Entries))
	c.JSON(http.StatusOK, result)
}

// spreadsheetTemplate godoc
// @Summary Download the import template
// @Tags spreadsheet
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /spreadsheet/template [get]
func (h *documentHandler) spreadsheetTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	raw, err := h.spreadsheetService.Template(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build template")
		return
	}
	attachment(c, "cassa_template.xlsx", xlsxMimeType, raw)
}

// previewSpreadsheet godoc
// @Summary Preview a spreadsheet import
// @Description Parses the workbook without applying anything
// @Tags spreadsheet
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} dto.ImportPreview
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /spreadsheet/preview [post]
func (h *documentHandler) previewSpreadsheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	up, ok := uploadOrAbort(c, logger)
	if !ok {
		return
	}

	preview, err := h.spreadsheetService.Preview(c.Request.Context(), bytes.NewReader(up.content))
	if err != nil {
		respondError(c, logger, err, "Failed to read spreadsheet")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// importSpreadsheet godoc
// @Summary Import a spreadsheet
// @Description Appends every readable row to the ledger
// @Tags spreadsheet
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 201 {object} dto.ImportResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /spreadsheet/import [post]
func (h *documentHandler) importSpreadsheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	up, ok := uploadOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.spreadsheetService.Import(c.Request.Context(), ownerID, bytes.NewReader(up.content))
	if err != nil {
		respondError(c, logger, err, "Failed to import spreadsheet")
		return
	}
	logger.Info("Spreadsheet imported", slog.String("file", up.name), slog.Int("imported", result.Imported))
	c.JSON(http.StatusCreated, result)
}

// exportSpreadsheet godoc
// @Summary Export the ledger as a workbook
// @Tags spreadsheet
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /spreadsheet/export [get]
func (h *documentHandler) exportSpreadsheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	raw, err := h.spreadsheetService.ExportLedger(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}
	attachment(c, "cassa_registro.xlsx", xlsxMimeType, raw)
}

// scanStatus godoc
// @Summary Invoice scanning availability
// @Tags scan
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /scan/status [get]
func (h *documentHandler) scanStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.scanService.Enabled()})
}

// scanInvoice godoc
// @Summary Scan an invoice
// @Description Reads supplier, number, total and dates from a photo or PDF. Nothing is stored.
// @Tags scan
// @Accept mpfd
// @Produce json
// @Param file formData file true "Invoice image or PDF"
// @Success 200 {object} domain.InvoiceDraft
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Scanning not configured"
// @Security BearerAuth
// @Router /scan/invoice [post]
func (h *documentHandler) scanInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	up, ok := uploadOrAbort(c, logger)
	if !ok {
		return
	}

	draft, err := h.scanService.ScanInvoice(c.Request.Context(), up.content, up.mimeType)
	if err != nil {
		respondError(c, logger, err, "Failed to scan invoice")
		return
	}
	logger.Info("Invoice scanned", slog.String("provider", draft.Provider), slog.Float64("confidence", draft.Confidence))
	c.JSON(http.StatusOK, draft)
}
