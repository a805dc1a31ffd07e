package accounting

import (
	"strings"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// prefixCategories maps the "Type: name" prefixes written by older versions,
// in Italian and English, to categories.
var prefixCategories = map[string]domain.Category{
	"fornitore": domain.CategorySupplier,
	"supplier":  domain.CategorySupplier,
	"stipendio": domain.CategorySalary,
	"salary":    domain.CategorySalary,
	"spesa":     domain.CategoryGeneric,
	"expense":   domain.CategoryGeneric,
	"recurring": domain.CategoryRecurring,
	"anticipo":  domain.CategoryAdvance,
	"advance":   domain.CategoryAdvance,

	"anticipo restituito":   domain.CategoryAdvanceRepayment,
	"restituito anticipo":   domain.CategoryAdvanceRepayment,
	"restituzione anticipo": domain.CategoryAdvanceRepayment,
	"rimborso anticipo":     domain.CategoryAdvanceRepayment,
	"advance repaid":        domain.CategoryAdvanceRepayment,
	"advance repayment":     domain.CategoryAdvanceRepayment,
}

// Classification is the category and payee recovered from a free-text description.
type Classification struct {
	Category domain.Category
	Payee    string
}

// ClassifyDescription recovers the category of a ledger row that only carries
// display text. It is used once, when importing data that predates stored
// categories. recurring lists the names of known recurring costs so that
// generic "Spesa: name" rows can be told apart.
func ClassifyDescription(desc string, amount decimal.Decimal, recurring []string) Classification {
	text := strings.TrimSpace(desc)
	lower := strings.ToLower(text)

	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		if cat, known := prefixCategories[strings.ToLower(strings.TrimSpace(prefix))]; known {
			payee := payeeOf(rest)
			if cat == domain.CategoryGeneric && domain.ContainsName(recurring, payee) {
				cat = domain.CategoryRecurring
			}
			return Classification{Category: cat, Payee: payee}
		}
	}

	switch {
	case strings.Contains(lower, "incasso"), strings.Contains(lower, "cash takings"):
		return Classification{Category: domain.CategoryTill}
	case strings.HasPrefix(lower, "deposit"), strings.HasPrefix(lower, "versamento"):
		return Classification{Category: domain.CategoryDeposit}
	case strings.HasPrefix(lower, "reso"), strings.HasPrefix(lower, "refund"), strings.HasPrefix(lower, "rimborso"):
		return Classification{Category: domain.CategoryRefund}
	}

	if amount.IsNegative() && domain.ContainsName(recurring, text) {
		return Classification{Category: domain.CategoryRecurring, Payee: text}
	}
	return Classification{Category: domain.CategoryImported}
}

// payeeOf strips a trailing " (note)" from a name.
func payeeOf(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	} else if i == 0 {
		return ""
	}
	return strings.TrimSpace(s)
}
