package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
)

const scanTimeout = 60 * time.Second

var scannableTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/tiff", "application/pdf"}

type scanService struct {
	BaseService
	scanner portsrepo.InvoiceScanner
}

// NewScanService creates the invoice scan service. scanner may be nil when no
// OCR provider is configured.
func NewScanService(scanner portsrepo.InvoiceScanner, opts ...ServiceOption) portssvc.ScanSvcFacade {
	s := &scanService{scanner: scanner}
	s.apply(opts)
	return s
}

func (s *scanService) Enabled() bool {
	return s.scanner != nil
}

func (s *scanService) ScanInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("invoice scanning: %w", apperrors.ErrRemoteUnavailable)
	}
	if len(content) == 0 {
		return nil, apperrors.Validationf("file is empty")
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(content)
	}
	supported := false
	for _, t := range scannableTypes {
		if t == mimeType {
			supported = true
			break
		}
	}
	if !supported {
		return nil, apperrors.Validationf("unsupported file type %q", mimeType)
	}

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	start := time.Now()
	draft, err := s.scanner.ExtractInvoice(ctx, content, mimeType)
	if err != nil {
		s.LogError(ctx, err, "Invoice scan failed", slog.String("provider", s.scanner.Name()))
		return nil, err
	}
	draft.Provider = s.scanner.Name()
	s.LogInfo(ctx, "Invoice scanned",
		slog.String("provider", draft.Provider),
		slog.Float64("confidence", draft.Confidence),
		slog.Duration("took", time.Since(start)))
	return draft, nil
}
