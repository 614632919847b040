package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/live"
	"github.com/cuentaclara/restaurant-pos/services"
	"github.com/cuentaclara/restaurant-pos/utils"
)

type AccountController struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewAccountController(db *gorm.DB) *AccountController {
	return &AccountController{DB: db, Ledger: services.NewLedgerService(db)}
}

// ListAccounts -> running and closed accounts, optional ?mesa= and ?fecha=
// (YYYY-MM-DD) filters, newest first
func (ac *AccountController) ListAccounts(c *gin.Context) {
	filter := services.AccountFilter{}
	if mesa := c.Query("mesa"); mesa != "" {
		number, err := strconv.Atoi(mesa)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.TableNumber = &number
	}
	if fecha := c.Query("fecha"); fecha != "" {
		date := parseDateParam(fecha)
		filter.CreatedOn = &date
	}

	accounts, err := ac.Ledger.ListAccounts(filter)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of accounts", accounts)
}

func (ac *AccountController) GetAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	account, err := ac.Ledger.GetAccount(uint(id))
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Account detail", account)
}

// CreateOrder -> submits dishes against a table's running account, or the
// waiter's takeout account when table_number is absent. The account is
// found or created on the fly.
func (ac *AccountController) CreateOrder(c *gin.Context) {
	var req struct {
		TableNumber *int   `json:"table_number"`
		DishIDs     []uint `json:"dish_ids"`
		Note        string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// reject before touching the ledger so an empty submission does not
	// leave a fresh empty account behind
	if len(req.DishIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no dishes selected"))
		return
	}

	actor := actorFromContext(c)
	account, err := ac.Ledger.GetOrCreateActiveAccount(req.TableNumber, actor)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	order, err := ac.Ledger.PlaceOrder(account.ID, req.DishIDs, req.Note, actor)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	updated, err := ac.Ledger.GetAccount(account.ID)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	live.BroadcastOrderCreate(*order)
	live.BroadcastAccountUpdate(*updated)

	utils.InfoLogger.Printf("Order %d placed on account %d (%s), total now %s",
		order.ID, updated.ID, updated.Label(), updated.Total.StringFixed(2))
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":   order,
		"account": updated,
	})
}

// CloseAccount -> one-way close, the total is recomputed one final time
func (ac *AccountController) CloseAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	account, err := ac.Ledger.CloseAccount(uint(id))
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	live.BroadcastAccountUpdate(*account)

	utils.InfoLogger.Printf("Account %d closed, total %s", account.ID, account.Total.StringFixed(2))
	utils.RespondJSON(c, http.StatusOK, "Account closed", account)
}

func (ac *AccountController) DeleteAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.Ledger.DeleteAccount(uint(id)); err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Account %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Account deleted", gin.H{"account_id": id})
}
