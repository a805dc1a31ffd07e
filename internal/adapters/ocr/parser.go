package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	datePattern   = regexp.MustCompile(`\b(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)
	amountPattern = regexp.MustCompile(`\d{1,3}(?:[.\s']\d{3})*,\d{2}\b|\d{1,3}(?:,\d{3})+\.\d{2}\b|\d+(?:[.,]\d{2})\b`)
	numberPattern = regexp.MustCompile(`(?i)\b(?:fattura|invoice|documento|doc\.?)\b[^\n]*?(?:\bn(?:r|o|umero|umber)?\s*[°º.:]?|#)\s*[:.]?\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`)
)

var (
	totalKeywords = []string{"totale documento", "totale fattura", "netto a pagare", "da pagare", "total due", "amount due", "totale", "total"}
	dueKeywords   = []string{"scadenza", "scad.", "due date", "payment due", "entro il"}
	skipSupplier  = []string{"fattura", "invoice", "documento", "pagina", "page", "cliente", "customer", "spett"}
)

// ParseInvoiceText extracts invoice fields from OCR text. Confidence is the
// share of fields that were found.
func ParseInvoiceText(text string) *domain.InvoiceDraft {
	draft := &domain.InvoiceDraft{RawText: text}
	lines := splitLines(text)
	found := 0

	if s := guessSupplier(lines); s != "" {
		draft.Supplier = s
		found++
	}
	if m := numberPattern.FindStringSubmatch(text); m != nil {
		draft.Number = strings.Trim(m[1], ".-/")
		if draft.Number != "" {
			found++
		}
	}
	if total, ok := guessTotal(lines); ok {
		draft.Total = &total
		found++
	}
	if due, ok := dateOnKeywordLine(lines, dueKeywords); ok {
		draft.DueDate = &due
		found++
	}
	for _, raw := range datePattern.FindAllString(text, -1) {
		d, err := domain.ParseFlexDate(raw)
		if err != nil {
			continue
		}
		if draft.DueDate != nil && d.Equal(*draft.DueDate) {
			continue
		}
		draft.Date = &d
		found++
		break
	}
	draft.Confidence = float64(found) / 5
	return draft
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func guessSupplier(lines []string) string {
	for i, l := range lines {
		if i >= 6 {
			break
		}
		lower := strings.ToLower(l)
		if containsAny(lower, skipSupplier) {
			continue
		}
		letters, digits := 0, 0
		for _, r := range l {
			switch {
			case unicode.IsLetter(r):
				letters++
			case unicode.IsDigit(r):
				digits++
			}
		}
		if letters >= 3 && digits <= letters/2 {
			return l
		}
	}
	return ""
}

// guessTotal prefers the most specific total keyword, taking the last amount
// on the line. Among lines of the same keyword the largest amount wins.
func guessTotal(lines []string) (decimal.Decimal, bool) {
	for _, kw := range totalKeywords {
		var best decimal.Decimal
		ok := false
		for _, l := range lines {
			if !strings.Contains(strings.ToLower(l), kw) {
				continue
			}
			amounts := amountPattern.FindAllString(l, -1)
			if len(amounts) == 0 {
				continue
			}
			v, parsed := utils.ParseAmount(amounts[len(amounts)-1])
			if !parsed || !v.IsPositive() {
				continue
			}
			if !ok || v.GreaterThan(best) {
				best, ok = v, true
			}
		}
		if ok {
			return domain.Round2(best), true
		}
	}
	return decimal.Zero, false
}

func dateOnKeywordLine(lines []string, keywords []string) (domain.Date, bool) {
	for _, l := range lines {
		if !containsAny(strings.ToLower(l), keywords) {
			continue
		}
		if raw := datePattern.FindString(l); raw != "" {
			if d, err := domain.ParseFlexDate(raw); err == nil {
				return d, true
			}
		}
	}
	return domain.Date{}, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
