package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/services"
	"github.com/cuentaclara/restaurant-pos/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CashierController struct {
	DB      *gorm.DB
	Cashier *services.CashierService
}

func NewCashierController(db *gorm.DB) *CashierController {
	return &CashierController{DB: db, Cashier: services.NewCashierService(db)}
}

// GetCorte -> the day's reconciliation view, ?fecha=YYYY-MM-DD, default today
func (cc *CashierController) GetCorte(c *gin.Context) {
	date := parseDateParam(c.Query("fecha"))
	view, err := cc.Cashier.ComputeForDate(date)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Corte de caja", view)
}

// AddExtraCash -> validates an extra-cash amount against the day's view. A
// bad amount is not fatal: the view still renders, with extra cash at zero.
func (cc *CashierController) AddExtraCash(c *gin.Context) {
	var req struct {
		Fecha string `json:"fecha"`
		Monto string `json:"monto" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date := parseDateParam(req.Fecha)
	view, err := cc.Cashier.ComputeForDate(date)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	// the drawer figure only picks the new amount up on finalization
	amount, parseErr := cc.Cashier.ParseExtraCash(req.Monto)
	message := "Extra cash added"
	if parseErr != nil {
		message = parseErr.Error()
		amount = decimal.Zero
	}
	view.ExtraCash = amount

	utils.RespondJSON(c, http.StatusOK, message, view)
}

// FinalizeCorte -> computes the drawer figure and saves the single
// reconciliation row for the date, replacing any previous one
func (cc *CashierController) FinalizeCorte(c *gin.Context) {
	var req struct {
		Fecha           string `json:"fecha"`
		EfectivoInicial string `json:"efectivo_inicial"`
		MontoExtra      string `json:"monto_extra"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date := parseDateParam(req.Fecha)

	view, err := cc.Cashier.ComputeForDate(date)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	// an already saved corte keeps its stored extra cash unless the request
	// carries a valid replacement
	extraCash := view.ExtraCash
	message := "Corte de caja saved"
	if req.MontoExtra != "" {
		amount, parseErr := cc.Cashier.ParseExtraCash(req.MontoExtra)
		if parseErr != nil {
			message = fmt.Sprintf("Corte de caja saved (%s)", parseErr.Error())
		} else {
			extraCash = amount
		}
	}

	rec, err := cc.Cashier.FinalizeReconciliation(date, req.EfectivoInicial, extraCash, actorFromContext(c))
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Corte de caja saved for %s, drawer %s",
		rec.Date.Format("2006-01-02"), rec.CashInDrawer.StringFixed(2))
	utils.RespondJSON(c, http.StatusOK, message, rec)
}

// ExportCorte -> downloads the day's workbook as Corte_<YYYYMMDD>.xlsx
func (cc *CashierController) ExportCorte(c *gin.Context) {
	date := parseDateParam(c.Query("fecha"))

	data, err := cc.Cashier.ExportForDate(date)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	filename := services.ExportFilename(date)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (cc *CashierController) ListExpenses(c *gin.Context) {
	date := parseDateParam(c.Query("fecha"))
	expenses, err := cc.Cashier.ListExpenses(date)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of expenses", expenses)
}

func (cc *CashierController) CreateExpense(c *gin.Context) {
	var req struct {
		Fecha       string `json:"fecha"`
		Descripcion string `json:"descripcion" binding:"required"`
		Monto       string `json:"monto" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	expense, err := cc.Cashier.AddExpense(parseDateParam(req.Fecha), req.Descripcion, req.Monto)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Expense recorded: %s (%s)", expense.Description, expense.Amount.StringFixed(2))
	utils.RespondJSON(c, http.StatusCreated, "Expense recorded", expense)
}

func (cc *CashierController) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Cashier.DeleteExpense(uint(id)); err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Expense %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Expense deleted", gin.H{"expense_id": id})
}
