package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/models"
)

// UserService handles staff accounts and the guards around removing them.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	PhotoUrl *string
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleEmployee
}

func (us *UserService) Register(in UserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, validationErrorf("name, email and password are required")
	}
	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if !validRole(role) {
		return nil, validationErrorf("unknown role %q", role)
	}

	var count int64
	if err := us.DB.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, internalError(err)
	}
	if count > 0 {
		return nil, conflictErrorf("email %s is already registered", in.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: string(hashed),
		Role:     role,
		PhotoUrl: in.PhotoUrl,
	}
	if err := us.DB.Create(&user).Error; err != nil {
		return nil, internalError(err)
	}
	return &user, nil
}

// Authenticate accepts the user's name or, when the login contains an '@',
// their email.
func (us *UserService) Authenticate(login, password string) (*models.User, error) {
	var user models.User
	column := "name"
	if strings.Contains(login, "@") {
		column = "email"
	}
	if err := us.DB.Where(column+" = ?", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authorizationErrorf("invalid credentials")
		}
		return nil, internalError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, authorizationErrorf("invalid credentials")
	}
	return &user, nil
}

func (us *UserService) ListUsers(roleFilter string) ([]models.User, error) {
	q := us.DB.Order("name")
	if roleFilter != "" {
		q = q.Where("role = ?", roleFilter)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, internalError(err)
	}
	return users, nil
}

func (us *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := us.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("user %d not found", id)
		}
		return nil, internalError(err)
	}
	return &user, nil
}

func (us *UserService) UpdateUser(id uint, in UserInput) (*models.User, error) {
	user, err := us.GetUser(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		user.Name = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.Email) != "" {
		user.Email = strings.TrimSpace(in.Email)
	}
	if in.Role != "" {
		if !validRole(in.Role) {
			return nil, validationErrorf("unknown role %q", in.Role)
		}
		user.Role = in.Role
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, internalError(err)
		}
		user.Password = string(hashed)
	}
	if in.PhotoUrl != nil {
		user.PhotoUrl = in.PhotoUrl
	}

	if err := us.DB.Save(user).Error; err != nil {
		return nil, internalError(err)
	}
	return user, nil
}

// DeleteUser refuses self-deletion and removing the last admin. Orders placed
// by the user survive with their user reference cleared.
func (us *UserService) DeleteUser(id uint, actor Actor) error {
	if id == actor.UserID {
		return authorizationErrorf("you cannot delete your own user")
	}

	user, err := us.GetUser(id)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		var admins int64
		if err := us.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return internalError(err)
		}
		if admins <= 1 {
			return authorizationErrorf("cannot delete the only remaining admin")
		}
	}

	err = us.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("user_id = ?", user.ID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return internalError(err)
	}
	return nil
}
