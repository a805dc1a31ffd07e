package ocr

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"google.golang.org/api/option"
)

// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
const MaxFileSizeBytes = 20 * 1024 * 1024

// VisionScanner reads invoices with Google Cloud Vision document text detection.
type VisionScanner struct {
	client *vision.ImageAnnotatorClient

	annotateImages func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)
	annotateFiles  func(ctx context.Context, req *visionpb.BatchAnnotateFilesRequest) (*visionpb.BatchAnnotateFilesResponse, error)
}

var _ portsrepo.InvoiceScanner = (*VisionScanner)(nil)

// NewVisionScanner creates a scanner. credentialsJSON may be empty, in which
// case application default credentials are used.
func NewVisionScanner(ctx context.Context, credentialsJSON string) (*VisionScanner, error) {
	const op = "NewVisionScanner"

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, WrapOCRError(op, ErrMissingCredentials, err.Error())
	}
	return &VisionScanner{
		client: client,
		annotateImages: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
			return client.BatchAnnotateImages(ctx, req)
		},
		annotateFiles: func(ctx context.Context, req *visionpb.BatchAnnotateFilesRequest) (*visionpb.BatchAnnotateFilesResponse, error) {
			return client.BatchAnnotateFiles(ctx, req)
		},
	}, nil
}

func (v *VisionScanner) Name() string { return "google_vision" }

func (v *VisionScanner) ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error) {
	const op = "ExtractInvoice"

	if len(content) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrFileTooLarge, fmt.Sprintf("file size: %d bytes", len(content)))
	}

	var (
		pages []*visionpb.AnnotateImageResponse
		err   error
	)
	if mimeType == "application/pdf" {
		pages, err = v.readPDF(ctx, content)
	} else {
		pages, err = v.readImage(ctx, content)
	}
	if err != nil {
		return nil, WrapOCRError(op, err, "Vision API call failed")
	}

	text, confidence, err := collectText(pages)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}
	draft := ParseInvoiceText(text)
	if confidence > 0 {
		draft.Confidence *= confidence
	}
	return draft, nil
}

func (v *VisionScanner) readImage(ctx context.Context, content []byte) ([]*visionpb.AnnotateImageResponse, error) {
	resp, err := v.annotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: content},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	return resp.GetResponses(), nil
}

func (v *VisionScanner) readPDF(ctx context.Context, content []byte) ([]*visionpb.AnnotateImageResponse, error) {
	resp, err := v.annotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{Content: content, MimeType: "application/pdf"},
				Features:    []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("%w: no response from Vision API", ErrOCRFailed)
	}
	fileResp := resp.GetResponses()[0]
	if fileResp.GetError() != nil {
		return nil, fmt.Errorf("%w: %s", ErrOCRFailed, fileResp.GetError().GetMessage())
	}
	return fileResp.GetResponses(), nil
}

// collectText joins the text of all pages and averages the page confidence.
func collectText(pages []*visionpb.AnnotateImageResponse) (string, float64, error) {
	var b strings.Builder
	var confidenceSum float64
	var confidenceCount int
	for i, page := range pages {
		if page.GetError() != nil {
			return "", 0, fmt.Errorf("%w: page %d: %s", ErrOCRFailed, i+1, page.GetError().GetMessage())
		}
		annotation := page.GetFullTextAnnotation()
		if annotation == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(annotation.GetText())
		for _, p := range annotation.GetPages() {
			if p.GetConfidence() > 0 {
				confidenceSum += float64(p.GetConfidence())
				confidenceCount++
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", 0, ErrEmptyDocument
	}
	var avg float64
	if confidenceCount > 0 {
		avg = confidenceSum / float64(confidenceCount)
	}
	return b.String(), avg, nil
}

// Close closes the underlying Vision client.
func (v *VisionScanner) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
