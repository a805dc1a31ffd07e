package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/sashabaranov/go-openai"
)

const openAISystemPrompt = `You read photos of supplier invoices for a small shop.
Answer with a JSON object with the keys supplier, invoice_number, total, issue_date, due_date and confidence.
Dates use YYYY-MM-DD. total is the gross amount to pay as a plain number.
confidence is between 0 and 1. Use an empty string for fields you cannot read.`

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIScanner reads invoice photos with a vision capable chat model.
type OpenAIScanner struct {
	client chatCompleter
	model  string
}

var _ portsrepo.InvoiceScanner = (*OpenAIScanner)(nil)

// chatInvoice is the structured answer requested from the model.
type chatInvoice struct {
	Supplier      string          `json:"supplier"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         json.RawMessage `json:"total"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Confidence    float64         `json:"confidence"`
}

// NewOpenAIScanner creates a scanner for the given API key and model.
func NewOpenAIScanner(apiKey, model string) (*OpenAIScanner, error) {
	if apiKey == "" {
		return nil, WrapOCRError("NewOpenAIScanner", ErrMissingCredentials, "OPENAI_API_KEY is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIScanner{client: openai.NewClient(apiKey), model: model}, nil
}

func (o *OpenAIScanner) Name() string { return "openai" }

func (o *OpenAIScanner) ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error) {
	const op = "ExtractInvoice"

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, WrapOCRError(op, ErrUnsupportedType, mimeType)
	}
	if len(content) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrFileTooLarge, fmt.Sprintf("file size: %d bytes", len(content)))
	}

	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: openAISystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Extract the invoice fields."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	})
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, "empty completion")
	}
	draft, err := parseChatInvoice(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, WrapOCRError(op, err, "unreadable completion")
	}
	return draft, nil
}

func parseChatInvoice(raw string) (*domain.InvoiceDraft, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var ci chatInvoice
	if err := json.Unmarshal([]byte(raw), &ci); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	draft := &domain.InvoiceDraft{
		Supplier:   strings.TrimSpace(ci.Supplier),
		Number:     strings.TrimSpace(ci.InvoiceNumber),
		Confidence: ci.Confidence,
		RawText:    raw,
	}
	if draft.Confidence < 0 || draft.Confidence > 1 {
		draft.Confidence = 0
	}
	if total, ok := utils.ParseAmount(strings.Trim(string(ci.Total), `"`)); ok && total.IsPositive() {
		total = domain.Round2(total)
		draft.Total = &total
	}
	if d, err := domain.ParseFlexDate(ci.IssueDate); err == nil {
		draft.Date = &d
	}
	if d, err := domain.ParseFlexDate(ci.DueDate); err == nil {
		draft.DueDate = &d
	}
	if draft.Supplier == "" && draft.Number == "" && draft.Total == nil {
		return nil, errors.Join(ErrEmptyDocument, errors.New("no invoice field recognized"))
	}
	return draft, nil
}
