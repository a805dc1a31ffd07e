package accounting

import (
	"testing"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDescription(t *testing.T) {
	recurring := []string{"Enel", "Affitto"}
	minus := decimal.NewFromInt(-10)
	plus := decimal.NewFromInt(10)

	tests := []struct {
		name     string
		desc     string
		amount   decimal.Decimal
		category domain.Category
		payee    string
	}{
		{"supplier with note", "Fornitore: Rossi Srl (consegna)", minus, domain.CategorySupplier, "Rossi Srl"},
		{"english supplier", "Supplier: Acme", minus, domain.CategorySupplier, "Acme"},
		{"salary", "Stipendio: Mario", minus, domain.CategorySalary, "Mario"},
		{"generic", "Spesa: Spesa generica", minus, domain.CategoryGeneric, "Spesa generica"},
		{"generic known as recurring", "Spesa: enel", minus, domain.CategoryRecurring, "enel"},
		{"till", "Incasso Cash (Z:1000 POS:500)", plus, domain.CategoryTill, ""},
		{"labelled till", "Cassa 2 Incasso Cash (Z:10 POS:0)", plus, domain.CategoryTill, ""},
		{"deposit", "Deposito", minus, domain.CategoryDeposit, ""},
		{"refund", "Reso cliente", minus, domain.CategoryRefund, ""},
		{"advance repayment", "Anticipo restituito: Luca", plus, domain.CategoryAdvanceRepayment, "Luca"},
		{"english advance repayment", "Advance repaid: Luca", plus, domain.CategoryAdvanceRepayment, "Luca"},
		{"supplier name mentioning refunds", "Fornitore: Restituzioni Srl", minus, domain.CategorySupplier, "Restituzioni Srl"},
		{"repaid outside the prefix", "Spesa: ombrello repaid", minus, domain.CategoryGeneric, "ombrello repaid"},
		{"unknown prefix", "Varie: qualcosa", minus, domain.CategoryImported, ""},
		{"bare recurring name", "Affitto", minus, domain.CategoryRecurring, "Affitto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDescription(tt.desc, tt.amount, recurring)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.payee, got.Payee)
		})
	}
}
