package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/models"
)

// setupTestDB opens a named in-memory SQLite database so every test gets its
// own isolated schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Dish{},
		&models.Account{},
		&models.AccountDish{},
		&models.Order{},
		&models.ExtraExpense{},
		&models.CashReconciliation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@cuentaclara.mx",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedDish(t *testing.T, db *gorm.DB, user models.User, name, price string) models.Dish {
	t.Helper()
	dish, err := NewCatalogService(db).AddDish(
		Actor{UserID: user.ID, Role: user.Role},
		DishInput{Name: name, PriceText: price},
	)
	if err != nil {
		t.Fatalf("failed to seed dish %s: %v", name, err)
	}
	return *dish
}
