package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/models"
)

// closeAccountWithTotal builds a closed account directly, dated inside the
// given day, so corte tests do not have to walk the whole order flow.
func closeAccountWithTotal(t *testing.T, db *gorm.DB, user models.User, tableID *uint, total string, closedAt time.Time) models.Account {
	t.Helper()
	amount, err := decimal.NewFromString(total)
	assert.NoError(t, err)
	account := models.Account{
		TableID:  tableID,
		UserID:   user.ID,
		Total:    amount,
		Active:   false,
		ClosedAt: &closedAt,
	}
	assert.NoError(t, db.Create(&account).Error)
	return account
}

func TestComputeForDateAggregates(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	closedAt := date.Add(21 * time.Hour)

	closeAccountWithTotal(t, db, admin, nil, "75.50", closedAt)
	closeAccountWithTotal(t, db, admin, nil, "120.00", closedAt.Add(30*time.Minute))
	// closed the next day, must not count
	closeAccountWithTotal(t, db, admin, nil, "999.00", date.AddDate(0, 0, 1).Add(time.Hour))

	_, err := cashier.AddExpense(date, "Hielo", "20.00")
	assert.NoError(t, err)

	view, err := cashier.ComputeForDate(date)
	assert.NoError(t, err)
	assert.Equal(t, "195.5", view.SalesTotal.String())
	assert.Equal(t, "20", view.ExpenseTotal.String())
	assert.True(t, view.ExtraCash.IsZero())
	assert.Equal(t, "175.5", view.CashInDrawer.String())
	assert.False(t, view.Finalized)

	rec, err := cashier.FinalizeReconciliation(date, "500.00", decimal.Zero, Actor{UserID: admin.ID, Role: admin.Role})
	assert.NoError(t, err)
	assert.Equal(t, "675.5", rec.CashInDrawer.String())

	// a saved corte seeds the view afterwards
	view, err = cashier.ComputeForDate(date)
	assert.NoError(t, err)
	assert.True(t, view.Finalized)
	assert.Equal(t, "675.5", view.CashInDrawer.String())
}

func TestComputeForDateEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)

	view, err := cashier.ComputeForDate(time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local))
	assert.NoError(t, err)
	assert.True(t, view.SalesTotal.IsZero())
	assert.True(t, view.ExpenseTotal.IsZero())
	assert.True(t, view.CashInDrawer.IsZero())
	assert.False(t, view.Finalized)
}

func TestFinalizeReconciliationUpsertsByDate(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	actor := Actor{UserID: admin.ID, Role: admin.Role}

	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.Local)

	first, err := cashier.FinalizeReconciliation(date, "100.00", decimal.Zero, actor)
	assert.NoError(t, err)
	assert.Equal(t, "100", first.StartingCash.String())

	second, err := cashier.FinalizeReconciliation(date, "250.00", decimal.NewFromInt(40), actor)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "250", second.StartingCash.String())
	assert.Equal(t, "40", second.ExtraCash.String())
	assert.Equal(t, "290", second.CashInDrawer.String())

	var count int64
	db.Model(&models.CashReconciliation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFinalizeReconciliationDefaultsBadStartingCash(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	date := time.Date(2025, 5, 11, 0, 0, 0, 0, time.Local)
	rec, err := cashier.FinalizeReconciliation(date, "not-a-number", decimal.Zero, Actor{UserID: admin.ID, Role: admin.Role})
	assert.NoError(t, err)
	assert.True(t, rec.StartingCash.IsZero())
}

func TestParseExtraCashInvalid(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)

	amount, err := cashier.ParseExtraCash("veinte pesos")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, amount.IsZero())

	amount, err = cashier.ParseExtraCash("150.25")
	assert.NoError(t, err)
	assert.Equal(t, "150.25", amount.String())
}

func TestAddExpenseValidation(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)
	date := time.Now()

	_, err := cashier.AddExpense(date, "", "10.00")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = cashier.AddExpense(date, "Gas", "diez")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = cashier.AddExpense(date, "Gas", "-10.00")
	assert.Equal(t, KindValidation, KindOf(err))

	var count int64
	db.Model(&models.ExtraExpense{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestExportWorkbookLayout(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	actor := Actor{UserID: admin.ID, Role: admin.Role}

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	closedAt := date.Add(21*time.Hour + 45*time.Minute)

	table, err := NewTableService(db).AddTable(3, "red")
	assert.NoError(t, err)
	closeAccountWithTotal(t, db, admin, &table.ID, "75.50", closedAt)
	closeAccountWithTotal(t, db, admin, nil, "120.00", closedAt.Add(30*time.Minute))

	_, err = cashier.AddExpense(date, "Hielo", "20.00")
	assert.NoError(t, err)
	_, err = cashier.FinalizeReconciliation(date, "500.00", decimal.Zero, actor)
	assert.NoError(t, err)

	data, err := cashier.ExportForDate(date)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Corte de Caja", "Gastos", "Cuentas Cerradas"}, f.GetSheetList())

	corteRows, err := f.GetRows("Corte de Caja")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Fecha", "Efectivo Inicial", "Ventas Totales", "Gastos Totales", "Monto Extra", "Dinero en Caja"}, corteRows[0])
	assert.Equal(t, "14/03/2025", corteRows[1][0])
	assert.Equal(t, "500", corteRows[1][1])
	assert.Equal(t, "195.5", corteRows[1][2])
	assert.Equal(t, "20", corteRows[1][3])
	assert.Equal(t, "675.5", corteRows[1][5])

	gastoRows, err := f.GetRows("Gastos")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Fecha", "Descripción", "Monto"}, gastoRows[0])
	assert.Equal(t, []string{"14/03/2025", "Hielo", "20"}, gastoRows[1])

	cuentaRows, err := f.GetRows("Cuentas Cerradas")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Mesa", "Total", "Fecha de cierre"}, cuentaRows[0])
	assert.Len(t, cuentaRows, 3)
	assert.Equal(t, "3", cuentaRows[1][0])
	assert.Equal(t, "14/03/2025 21:45", cuentaRows[1][2])
	assert.Equal(t, "Para llevar", cuentaRows[2][0])
	assert.Equal(t, "120", cuentaRows[2][1])
}

func TestExportWorkbookWithoutReconciliation(t *testing.T) {
	db := setupTestDB(t)
	cashier := NewCashierService(db)

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	data, err := cashier.ExportForDate(date)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Corte de Caja")
	assert.NoError(t, err)
	// with no saved corte the date still renders, the money columns stay blank
	assert.Equal(t, "01/07/2025", rows[1][0])
	for col := 1; col < len(rows[1]); col++ {
		assert.Empty(t, rows[1][col])
	}
}

func TestExportFilename(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "Corte_20250314.xlsx", ExportFilename(date))
}
