package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/models"
)

// Sheet names and the file date layout are fixed: the exported workbook is
// consumed by the owner's accountant and must not change shape.
const (
	sheetCorte    = "Corte de Caja"
	sheetExpenses = "Gastos"
	sheetAccounts = "Cuentas Cerradas"

	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// CashierService is the corte de caja: it aggregates a day's closed accounts
// and extra expenses into one reconciliation row per date, and exports it.
type CashierService struct {
	DB    *gorm.DB
	locks *keyedMutex
}

func NewCashierService(db *gorm.DB) *CashierService {
	return &CashierService{DB: db, locks: newKeyedMutex()}
}

// ReconciliationView is what the corte screen shows before (and after) the
// day is finalized.
type ReconciliationView struct {
	Date         time.Time       `json:"date"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	ExtraCash    decimal.Decimal `json:"extra_cash"`
	CashInDrawer decimal.Decimal `json:"cash_in_drawer"`
	Finalized    bool            `json:"finalized"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (cs *CashierService) salesTotal(date time.Time) (decimal.Decimal, error) {
	start, end := dayRange(date)
	var accounts []models.Account
	err := cs.DB.Where("closed_at >= ? AND closed_at < ?", start, end).Find(&accounts).Error
	if err != nil {
		return decimal.Zero, internalError(err)
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Total)
	}
	return total, nil
}

func (cs *CashierService) expenseTotal(date time.Time) (decimal.Decimal, error) {
	expenses, err := cs.ListExpenses(date)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (cs *CashierService) findReconciliation(date time.Time) (*models.CashReconciliation, error) {
	start, end := dayRange(date)
	var rec models.CashReconciliation
	err := cs.DB.Where("date >= ? AND date < ?", start, end).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internalError(err)
	}
	return &rec, nil
}

// ComputeForDate builds the corte view for one day. An already saved
// reconciliation seeds the extra-cash and drawer figures; otherwise extra
// cash starts at zero and the drawer is sales minus expenses.
func (cs *CashierService) ComputeForDate(date time.Time) (*ReconciliationView, error) {
	sales, err := cs.salesTotal(date)
	if err != nil {
		return nil, err
	}
	expenses, err := cs.expenseTotal(date)
	if err != nil {
		return nil, err
	}

	view := &ReconciliationView{
		Date:         dateOnly(date),
		SalesTotal:   sales,
		ExpenseTotal: expenses,
		ExtraCash:    decimal.Zero,
	}

	existing, err := cs.findReconciliation(date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		view.ExtraCash = existing.ExtraCash
		view.CashInDrawer = existing.CashInDrawer
		view.Finalized = true
	} else {
		view.CashInDrawer = sales.Sub(expenses).Add(view.ExtraCash)
	}
	return view, nil
}

// ParseExtraCash validates an extra-cash entry. A bad amount is a recoverable
// error: the caller shows the message and keeps rendering the view with zero.
func (cs *CashierService) ParseExtraCash(amountText string) (decimal.Decimal, error) {
	amount, err := parseAmount(amountText)
	if err != nil {
		return decimal.Zero, validationErrorf("invalid extra cash amount %q", amountText)
	}
	return amount, nil
}

// FinalizeReconciliation computes the drawer figure and saves the single
// reconciliation row for the date, replacing any previous one. An unparsable
// starting cash falls back to zero rather than failing the corte.
func (cs *CashierService) FinalizeReconciliation(date time.Time, startingCashText string, extraCash decimal.Decimal, actor Actor) (*models.CashReconciliation, error) {
	startingCash, err := parseAmount(startingCashText)
	if err != nil {
		startingCash = decimal.Zero
	}

	key := "corte:" + dateOnly(date).Format("2006-01-02")
	cs.locks.Lock(key)
	defer cs.locks.Unlock(key)

	sales, err := cs.salesTotal(date)
	if err != nil {
		return nil, err
	}
	expenses, err := cs.expenseTotal(date)
	if err != nil {
		return nil, err
	}

	drawer := startingCash.Add(sales).Sub(expenses).Add(extraCash)

	rec, err := cs.findReconciliation(date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.CashReconciliation{Date: dateOnly(date)}
	}
	rec.StartingCash = startingCash
	rec.SalesTotal = sales
	rec.ExpenseTotal = expenses
	rec.ExtraCash = extraCash
	rec.CashInDrawer = drawer
	rec.UserID = actor.UserID

	if err := cs.DB.Save(rec).Error; err != nil {
		return nil, internalError(err)
	}
	return rec, nil
}

func (cs *CashierService) AddExpense(date time.Time, description, amountText string) (*models.ExtraExpense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, validationErrorf("expense description is required")
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, validationErrorf("expense amount must be positive")
	}

	expense := models.ExtraExpense{
		Date:        dateOnly(date),
		Description: strings.TrimSpace(description),
		Amount:      amount,
	}
	if err := cs.DB.Create(&expense).Error; err != nil {
		return nil, internalError(err)
	}
	return &expense, nil
}

func (cs *CashierService) ListExpenses(date time.Time) ([]models.ExtraExpense, error) {
	start, end := dayRange(date)
	var expenses []models.ExtraExpense
	err := cs.DB.Where("date >= ? AND date < ?", start, end).Order("id").Find(&expenses).Error
	if err != nil {
		return nil, internalError(err)
	}
	return expenses, nil
}

func (cs *CashierService) DeleteExpense(id uint) error {
	var expense models.ExtraExpense
	if err := cs.DB.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("expense %d not found", id)
		}
		return internalError(err)
	}
	if err := cs.DB.Delete(&expense).Error; err != nil {
		return internalError(err)
	}
	return nil
}

// ExportForDate renders the corte workbook: the day's reconciliation row, its
// expenses and its closed accounts, one sheet each.
func (cs *CashierService) ExportForDate(date time.Time) ([]byte, error) {
	rec, err := cs.findReconciliation(date)
	if err != nil {
		return nil, err
	}
	expenses, err := cs.ListExpenses(date)
	if err != nil {
		return nil, err
	}

	start, end := dayRange(date)
	var accounts []models.Account
	if err := cs.DB.Preload("Table").
		Where("closed_at >= ? AND closed_at < ?", start, end).
		Order("closed_at").Find(&accounts).Error; err != nil {
		return nil, internalError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetCorte); err != nil {
		return nil, internalError(err)
	}
	header := []interface{}{"Fecha", "Efectivo Inicial", "Ventas Totales", "Gastos Totales", "Monto Extra", "Dinero en Caja"}
	if err := f.SetSheetRow(sheetCorte, "A1", &header); err != nil {
		return nil, internalError(err)
	}
	var row []interface{}
	if rec != nil {
		row = []interface{}{
			rec.Date.Format(dateLayout),
			rec.StartingCash.InexactFloat64(),
			rec.SalesTotal.InexactFloat64(),
			rec.ExpenseTotal.InexactFloat64(),
			rec.ExtraCash.InexactFloat64(),
			rec.CashInDrawer.InexactFloat64(),
		}
	} else {
		// numeric columns stay empty, not zero, when no corte was saved
		row = []interface{}{dateOnly(date).Format(dateLayout), "", "", "", "", ""}
	}
	if err := f.SetSheetRow(sheetCorte, "A2", &row); err != nil {
		return nil, internalError(err)
	}

	if _, err := f.NewSheet(sheetExpenses); err != nil {
		return nil, internalError(err)
	}
	expenseHeader := []interface{}{"Fecha", "Descripción", "Monto"}
	if err := f.SetSheetRow(sheetExpenses, "A1", &expenseHeader); err != nil {
		return nil, internalError(err)
	}
	for i, expense := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, internalError(err)
		}
		expenseRow := []interface{}{
			expense.Date.Format(dateLayout),
			expense.Description,
			expense.Amount.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetExpenses, cell, &expenseRow); err != nil {
			return nil, internalError(err)
		}
	}

	if _, err := f.NewSheet(sheetAccounts); err != nil {
		return nil, internalError(err)
	}
	accountHeader := []interface{}{"Mesa", "Total", "Fecha de cierre"}
	if err := f.SetSheetRow(sheetAccounts, "A1", &accountHeader); err != nil {
		return nil, internalError(err)
	}
	for i, account := range accounts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, internalError(err)
		}
		var mesa interface{} = models.TakeoutLabel
		if account.Table != nil {
			mesa = account.Table.Number
		}
		accountRow := []interface{}{
			mesa,
			account.Total.InexactFloat64(),
			account.ClosedAt.Format(dateTimeLayout),
		}
		if err := f.SetSheetRow(sheetAccounts, cell, &accountRow); err != nil {
			return nil, internalError(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, internalError(err)
	}
	return buf.Bytes(), nil
}

// ExportFilename is Corte_<YYYYMMDD>.xlsx for the given date.
func ExportFilename(date time.Time) string {
	return "Corte_" + date.Format("20060102") + ".xlsx"
}
