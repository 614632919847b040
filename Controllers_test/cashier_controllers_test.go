package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/controllers"
	"github.com/cuentaclara/restaurant-pos/models"
	"github.com/cuentaclara/restaurant-pos/utils"
)

func setupCashierRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	cashierCtrl := controllers.NewCashierController(db)
	router.GET("/corte", fakeAuth(1, models.RoleAdmin), cashierCtrl.GetCorte)
	router.POST("/admin/corte/finalizar", fakeAuth(1, models.RoleAdmin), cashierCtrl.FinalizeCorte)
	return router
}

func TestFinalizeCorteKeepsStoredExtraCash(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupCashierRouter(db)

	admin := models.User{Name: "admin", Email: "admin@test.local", Password: "x", Role: models.RoleAdmin}
	assert.NoError(t, db.Create(&admin).Error)

	closedAt := time.Date(2025, 3, 14, 20, 0, 0, 0, time.Local)
	account := models.Account{
		UserID:   admin.ID,
		Total:    decimal.RequireFromString("100.00"),
		Active:   false,
		ClosedAt: &closedAt,
	}
	assert.NoError(t, db.Create(&account).Error)

	w := postJSON(t, router, "/admin/corte/finalizar", map[string]interface{}{
		"fecha":            "2025-03-14",
		"efectivo_inicial": "0",
		"monto_extra":      "40.00",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var rec models.CashReconciliation
	assert.NoError(t, db.First(&rec).Error)
	assert.Equal(t, "40", rec.ExtraCash.String())
	assert.Equal(t, "140", rec.CashInDrawer.String())

	// recalculating without the field keeps the stored extra cash
	w = postJSON(t, router, "/admin/corte/finalizar", map[string]interface{}{
		"fecha":            "2025-03-14",
		"efectivo_inicial": "0",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CashReconciliation{}).Count(&count)
	assert.Equal(t, int64(1), count)

	rec = models.CashReconciliation{}
	assert.NoError(t, db.First(&rec).Error)
	assert.Equal(t, "40", rec.ExtraCash.String())
	assert.Equal(t, "140", rec.CashInDrawer.String())

	// an explicit new amount still replaces it
	w = postJSON(t, router, "/admin/corte/finalizar", map[string]interface{}{
		"fecha":            "2025-03-14",
		"efectivo_inicial": "0",
		"monto_extra":      "15.00",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	rec = models.CashReconciliation{}
	assert.NoError(t, db.First(&rec).Error)
	assert.Equal(t, "15", rec.ExtraCash.String())
	assert.Equal(t, "115", rec.CashInDrawer.String())
}
