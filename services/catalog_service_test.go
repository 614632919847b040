package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuentaclara/restaurant-pos/models"
)

func TestAddDishRejectsBadPrices(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)
	actor := Actor{UserID: admin.ID, Role: admin.Role}

	for _, price := range []string{"-5.00", "abc", "12.345", ""} {
		_, err := catalog.AddDish(actor, DishInput{Name: "Tacos al Pastor", PriceText: price})
		assert.Error(t, err, "price %q should be rejected", price)
		assert.Equal(t, KindValidation, KindOf(err))
	}

	// bad input must not leave partial rows behind
	var count int64
	db.Model(&models.Dish{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddDishTrimsIngredients(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)

	dish, err := catalog.AddDish(Actor{UserID: admin.ID, Role: admin.Role}, DishInput{
		Name:        "Quesadilla",
		PriceText:   "45.00",
		Ingredients: []string{"  Queso ", "", "Tortilla", "   "},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Queso, Tortilla", dish.Ingredients)
	assert.Equal(t, []string{"Queso", "Tortilla"}, dish.IngredientList())
	assert.True(t, dish.Active)
	assert.Equal(t, "45", dish.Price.String())
}

func TestEditDishRequiresNameAndPrice(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)
	dish := seedDish(t, db, admin, "Pozole", "80.00")

	_, err := catalog.EditDish(dish.ID, DishInput{Name: "", PriceText: "80.00"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = catalog.EditDish(dish.ID, DishInput{Name: "Pozole Rojo", PriceText: ""})
	assert.Equal(t, KindValidation, KindOf(err))

	// failed edits leave the dish untouched
	var reloaded models.Dish
	db.First(&reloaded, dish.ID)
	assert.Equal(t, "Pozole", reloaded.Name)

	updated, err := catalog.EditDish(dish.ID, DishInput{Name: "Pozole Rojo", PriceText: "85.50"})
	assert.NoError(t, err)
	assert.Equal(t, "Pozole Rojo", updated.Name)
	assert.Equal(t, "85.5", updated.Price.String())
}

func TestToggleActiveFlipsEachCall(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)
	dish := seedDish(t, db, admin, "Agua de Horchata", "25.00")

	toggled, err := catalog.ToggleActive(dish.ID)
	assert.NoError(t, err)
	assert.False(t, toggled.Active)

	toggled, err = catalog.ToggleActive(dish.ID)
	assert.NoError(t, err)
	assert.True(t, toggled.Active)
}

func TestListActiveExcludesInactive(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)

	seedDish(t, db, admin, "Enchiladas", "70.00")
	hidden := seedDish(t, db, admin, "Menudo", "90.00")
	_, err := catalog.ToggleActive(hidden.ID)
	assert.NoError(t, err)

	active, err := catalog.ListActive()
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "Enchiladas", active[0].Name)
}

func TestDeleteDishIsHardDelete(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	catalog := NewCatalogService(db)
	dish := seedDish(t, db, admin, "Flan", "35.00")

	assert.NoError(t, catalog.DeleteDish(dish.ID))

	var count int64
	db.Model(&models.Dish{}).Count(&count)
	assert.Equal(t, int64(0), count)

	err := catalog.DeleteDish(dish.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
