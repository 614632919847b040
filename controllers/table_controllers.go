package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/live"
	"github.com/cuentaclara/restaurant-pos/models"
	"github.com/cuentaclara/restaurant-pos/services"
	"github.com/cuentaclara/restaurant-pos/utils"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Tables: services.NewTableService(db)}
}

// GetAllTables -> tables ordered by number, for the floor screen
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.ListTables()
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number int    `json:"number" binding:"required"`
		Color  string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.AddTable(req.Number, req.Color)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	live.BroadcastTableCreate(*table)
	live.BroadcastFloorStats(tc.floorStats())

	utils.InfoLogger.Printf("Table %d created", table.Number)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// DeleteTable -> keyed by table number, not row id
func (tc *TableController) DeleteTable(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Tables.DeleteTable(number); err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	live.BroadcastTableDelete(number)
	live.BroadcastFloorStats(tc.floorStats())

	utils.InfoLogger.Printf("Table %d deleted", number)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"number": number})
}

// floorStats counts tables and open accounts for the dashboard header.
func (tc *TableController) floorStats() map[string]interface{} {
	var tableCount, openAccounts, openTakeout int64

	tc.DB.Model(&models.Table{}).Count(&tableCount)
	tc.DB.Model(&models.Account{}).Where("active = ?", true).Count(&openAccounts)
	tc.DB.Model(&models.Account{}).Where("active = ? AND table_id IS NULL", true).Count(&openTakeout)

	return map[string]interface{}{
		"tables":        tableCount,
		"open_accounts": openAccounts,
		"open_takeout":  openTakeout,
	}
}
