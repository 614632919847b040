package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuentaclara/restaurant-pos/models"
)

func registerUser(t *testing.T, us *UserService, name, role string) *models.User {
	t.Helper()
	user, err := us.Register(UserInput{
		Name:     name,
		Email:    name + "@cuentaclara.mx",
		Password: "secret123",
		Role:     role,
	})
	assert.NoError(t, err)
	return user
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	user := registerUser(t, users, "rosa", models.RoleAdmin)
	assert.True(t, user.IsAdmin())

	// by name
	found, err := users.Authenticate("rosa", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	// by email when the login contains an @
	found, err = users.Authenticate("rosa@cuentaclara.mx", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = users.Authenticate("rosa", "wrong")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	registerUser(t, users, "rosa", models.RoleEmployee)
	_, err := users.Register(UserInput{
		Name:     "rosa2",
		Email:    "rosa@cuentaclara.mx",
		Password: "secret123",
	})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestDeleteUserGuards(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	admin := registerUser(t, users, "rosa", models.RoleAdmin)
	employee := registerUser(t, users, "beto", models.RoleEmployee)

	// nobody deletes themself
	err := users.DeleteUser(admin.ID, Actor{UserID: admin.ID, Role: admin.Role})
	assert.Equal(t, KindAuthorization, KindOf(err))

	// the only admin cannot be removed
	err = users.DeleteUser(admin.ID, Actor{UserID: employee.ID, Role: employee.Role})
	assert.Equal(t, KindAuthorization, KindOf(err))

	secondAdmin := registerUser(t, users, "carla", models.RoleAdmin)
	err = users.DeleteUser(admin.ID, Actor{UserID: secondAdmin.ID, Role: secondAdmin.Role})
	assert.NoError(t, err)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestDeleteUserKeepsOrders(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	ledger := NewLedgerService(db)

	admin := registerUser(t, users, "rosa", models.RoleAdmin)
	waiter := registerUser(t, users, "beto", models.RoleEmployee)
	actor := Actor{UserID: waiter.ID, Role: waiter.Role}

	dish := seedDish(t, db, *waiter, "Tostada", "32.00")
	account, err := ledger.GetOrCreateActiveAccount(nil, actor)
	assert.NoError(t, err)
	order, err := ledger.PlaceOrder(account.ID, []uint{dish.ID}, "", actor)
	assert.NoError(t, err)

	err = users.DeleteUser(waiter.ID, Actor{UserID: admin.ID, Role: admin.Role})
	assert.NoError(t, err)

	// the order survives with its user reference cleared
	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Nil(t, reloaded.UserID)
}
