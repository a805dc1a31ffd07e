package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	movementsSheet = "Movimenti"
	ledgerSheet    = "Registro"
)

var templateHeader = []interface{}{"Data", "Totale Z", "POS", "Contanti", "Uscita contanti", "Descrizione uscita", "Deposito", "Reso"}

// Header synonyms, in Chinese, Italian and English.
var (
	dateKeys      = []string{"日期", "data", "date", "giorno"}
	totalZKeys    = []string{"总金额", "totale z", "totale_z", "total z", "z total"}
	posKeys       = []string{"pos"}
	cashKeys      = []string{"现金", "cash", "contanti"}
	expAmountKeys = []string{"现金支出", "uscita", "spesa", "expense"}
	expDescKeys   = []string{"支出项目", "descrizione", "description", "desc", "voce", "causale", "nome"}
	depositKeys   = []string{"存钱", "deposito", "versamento", "deposit"}
	refundKeys    = []string{"退钱", "rimborso", "reso", "refund"}
	amountKeys    = []string{"importo", "amount", "valore"}
)

type spreadsheetService struct {
	BaseService
	store *RegisterStore
}

// NewSpreadsheetService creates the xlsx import and export service.
func NewSpreadsheetService(store *RegisterStore, opts ...ServiceOption) portssvc.SpreadsheetSvcFacade {
	s := &spreadsheetService{store: store}
	s.apply(opts)
	return s
}

func (s *spreadsheetService) Template(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", movementsSheet); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}
	example := s.Today().Display()
	rows := [][]interface{}{
		templateHeader,
		{example, 1000, 500, 500, "", "", "", ""},
		{example, "", "", "", 120, "Fornitore Rossi", "", ""},
	}
	if err := writeRows(f, movementsSheet, rows); err != nil {
		return nil, err
	}
	if err := styleHeader(f, movementsSheet, len(templateHeader)); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func (s *spreadsheetService) Preview(ctx context.Context, r io.Reader) (*dto.ImportPreview, error) {
	return parseWorkbook(r, nil, s.Today())
}

func (s *spreadsheetService) Import(ctx context.Context, ownerID string, r io.Reader) (*dto.ImportResult, error) {
	current, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	preview, err := parseWorkbook(r, current.Recurring, s.Today())
	if err != nil {
		return nil, err
	}
	if len(preview.Rows) == 0 {
		return nil, apperrors.Validationf("no valid rows found in the spreadsheet")
	}

	now := s.CurrentTime().UTC()
	reg, err := s.store.Mutate(ctx, ownerID, ActionImport, func(reg *domain.Register) error {
		for _, row := range preview.Rows {
			reg.ApplyEntry(domain.LedgerEntry{
				Date:        row.Date,
				Category:    row.Category,
				Description: row.Description,
				Amount:      row.Amount,
				CreatedAt:   now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Spreadsheet imported",
		slog.String("owner_id", ownerID),
		slog.Int("rows", len(preview.Rows)),
		slog.Int("skipped", len(preview.Skipped)))
	return &dto.ImportResult{Imported: len(preview.Rows), Skipped: preview.Skipped, Balance: reg.Balance}, nil
}

func (s *spreadsheetService) ExportLedger(ctx context.Context, ownerID string) ([]byte, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entries := slices.Clone(reg.Ledger)
	slices.SortFunc(entries, func(a, b domain.LedgerEntry) int { return -newestFirst(a, b) })

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", movementsSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		return nil, fmt.Errorf("failed to create ledger sheet: %w", err)
	}

	movements := [][]interface{}{templateHeader}
	ledger := [][]interface{}{{"Data", "Categoria", "Descrizione", "Beneficiario", "Fattura", "Importo", "Saldo"}}
	running := accounting.OpeningBase(reg.Balance, reg.Ledger)
	for _, e := range entries {
		running = running.Add(e.Amount)
		amount, _ := e.Amount.Abs().Float64()
		row := []interface{}{e.Date.Display(), "", "", "", "", "", "", ""}
		switch {
		case e.Category == domain.CategoryDeposit:
			row[6] = amount
		case e.Category == domain.CategoryRefund:
			row[7] = amount
		case e.IsIncome():
			row[3] = amount
		default:
			row[4] = amount
			row[5] = e.Description
		}
		movements = append(movements, row)

		signed, _ := e.Amount.Float64()
		balance, _ := domain.Round2(running).Float64()
		ledger = append(ledger, []interface{}{e.Date.Display(), string(e.Category), e.Description, e.Payee, e.InvoiceRef, signed, balance})
	}
	if err := writeRows(f, movementsSheet, movements); err != nil {
		return nil, err
	}
	if err := writeRows(f, ledgerSheet, ledger); err != nil {
		return nil, err
	}
	if err := styleHeader(f, movementsSheet, len(templateHeader)); err != nil {
		return nil, err
	}
	if err := styleHeader(f, ledgerSheet, 7); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// columnMap holds the index of each recognized column, -1 when absent.
type columnMap struct {
	date, totalZ, pos, cash, expAmount, expDesc, deposit, refund, amount int
}

// findColumns matches headers to columns. Exact matches win over substring
// matches and a column is claimed by at most one role, so "Uscita contanti"
// is not mistaken for the cash column.
func findColumns(headers []string) columnMap {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	claimed := make([]bool, len(headers))
	find := func(keys []string) int {
		for i, h := range lower {
			if !claimed[i] && h != "" && slices.Contains(keys, h) {
				claimed[i] = true
				return i
			}
		}
		for i, h := range lower {
			if claimed[i] || h == "" {
				continue
			}
			for _, k := range keys {
				if strings.Contains(h, k) {
					claimed[i] = true
					return i
				}
			}
		}
		return -1
	}
	var m columnMap
	m.date = find(dateKeys)
	m.totalZ = find(totalZKeys)
	m.expAmount = find(expAmountKeys)
	m.expDesc = find(expDescKeys)
	m.deposit = find(depositKeys)
	m.refund = find(refundKeys)
	m.pos = find(posKeys)
	m.cash = find(cashKeys)
	m.amount = find(amountKeys)
	return m
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func amountAt(row []string, idx int) decimal.Decimal {
	v, ok := utils.ParseAmount(cell(row, idx))
	if !ok {
		return decimal.Zero
	}
	return domain.Round2(v)
}

// parseCellDate reads dates written as text or stored as Excel serial numbers.
func parseCellDate(raw string) (domain.Date, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && !strings.ContainsAny(raw, "/-") {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.Date{}, err
		}
		return domain.DateOf(t), nil
	}
	return domain.ParseFlexDate(raw)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseWorkbook(r io.Reader, recurring []string, today domain.Date) (*dto.ImportPreview, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Validationf("file is not a readable spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.Validationf("spreadsheet has no sheets")
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.Validationf("cannot read sheet %q: %v", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.Validationf("spreadsheet is empty")
	}

	cols := findColumns(rows[0])
	if cols.date < 0 {
		return nil, apperrors.Validationf("no date column found")
	}
	format := dto.ImportFormatRegister
	if cols.amount >= 0 && cols.totalZ < 0 && cols.expAmount < 0 {
		format = dto.ImportFormatSimple
	}

	preview := &dto.ImportPreview{
		Format:   format,
		Sheet:    sheet,
		Rows:     []dto.ImportRow{},
		Skipped:  []dto.SkippedRow{},
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	add := func(rowNum int, day domain.Date, cat domain.Category, desc string, amount decimal.Decimal) {
		preview.Rows = append(preview.Rows, dto.ImportRow{Row: rowNum, Date: day, Category: cat, Description: desc, Amount: amount})
		if amount.IsPositive() {
			preview.TotalIn = preview.TotalIn.Add(amount)
		} else {
			preview.TotalOut = preview.TotalOut.Add(amount.Abs())
		}
	}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		rawDate := cell(row, cols.date)
		if rawDate == "" {
			preview.Skipped = append(preview.Skipped, dto.SkippedRow{Row: rowNum, Reason: "missing date"})
			continue
		}
		day, err := parseCellDate(rawDate)
		if err != nil {
			preview.Skipped = append(preview.Skipped, dto.SkippedRow{Row: rowNum, Reason: "invalid date " + strconv.Quote(rawDate)})
			continue
		}
		if day.After(today.AddDays(366)) {
			preview.Skipped = append(preview.Skipped, dto.SkippedRow{Row: rowNum, Reason: "date too far in the future"})
			continue
		}

		if format == dto.ImportFormatSimple {
			amount := amountAt(row, cols.amount)
			if amount.IsZero() {
				preview.Skipped = append(preview.Skipped, dto.SkippedRow{Row: rowNum, Reason: "missing amount"})
				continue
			}
			desc := cell(row, cols.expDesc)
			if desc == "" {
				desc = "Imported"
			}
			add(rowNum, day, accounting.ClassifyDescription(desc, amount, recurring).Category, desc, amount)
			continue
		}

		totalZ := amountAt(row, cols.totalZ)
		pos := amountAt(row, cols.pos)
		cash := amountAt(row, cols.cash)
		expense := amountAt(row, cols.expAmount).Abs()
		deposit := amountAt(row, cols.deposit).Abs()
		refund := amountAt(row, cols.refund).Abs()

		income := decimal.Zero
		if cash.IsPositive() {
			income = cash
		} else if totalZ.IsPositive() {
			income = totalZ.Sub(pos)
		}

		before := len(preview.Rows)
		if income.IsPositive() {
			desc := "Cash takings"
			if totalZ.IsPositive() {
				desc = fmt.Sprintf("Cash takings (Z: %s POS: %s)", utils.FormatEuro(totalZ), utils.FormatEuro(pos))
			}
			add(rowNum, day, domain.CategoryTill, desc, income)
		}
		if expense.IsPositive() {
			desc := cell(row, cols.expDesc)
			if desc == "" {
				desc = "Expense"
			}
			cat := accounting.ClassifyDescription(desc, expense.Neg(), recurring).Category
			if cat == domain.CategoryImported {
				cat = domain.CategoryGeneric
			}
			add(rowNum, day, cat, desc, expense.Neg())
		}
		if deposit.IsPositive() {
			add(rowNum, day, domain.CategoryDeposit, "Deposit", deposit.Neg())
		}
		if refund.IsPositive() {
			add(rowNum, day, domain.CategoryRefund, "Customer refund", refund.Neg())
		}
		if len(preview.Rows) == before {
			preview.Skipped = append(preview.Skipped, dto.SkippedRow{Row: rowNum, Reason: "no amounts"})
		}
	}

	preview.TotalIn = domain.Round2(preview.TotalIn)
	preview.TotalOut = domain.Round2(preview.TotalOut)
	preview.NetBalance = domain.Round2(preview.TotalIn.Sub(preview.TotalOut))
	return preview, nil
}
