package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/models"
)

// CatalogService manages the dish catalog.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

type DishInput struct {
	Name        string
	PriceText   string
	Ingredients []string
	PhotoUrl    *string
}

// joinIngredients trims the entries, drops empty ones and joins the rest the
// way they are stored on the dish row.
func joinIngredients(entries []string) string {
	var kept []string
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			kept = append(kept, e)
		}
	}
	return strings.Join(kept, ", ")
}

func (cs *CatalogService) AddDish(actor Actor, in DishInput) (*models.Dish, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationErrorf("dish name is required")
	}
	price, err := parsePrice(in.PriceText)
	if err != nil {
		return nil, err
	}

	dish := models.Dish{
		UserID:      actor.UserID,
		Name:        strings.TrimSpace(in.Name),
		Ingredients: joinIngredients(in.Ingredients),
		Price:       price,
		Active:      true,
		PhotoUrl:    in.PhotoUrl,
	}
	if err := cs.DB.Create(&dish).Error; err != nil {
		return nil, internalError(err)
	}
	return &dish, nil
}

func (cs *CatalogService) EditDish(id uint, in DishInput) (*models.Dish, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.PriceText) == "" {
		return nil, validationErrorf("dish name and price are required")
	}
	price, err := parsePrice(in.PriceText)
	if err != nil {
		return nil, err
	}

	var dish models.Dish
	if err := cs.DB.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("dish %d not found", id)
		}
		return nil, internalError(err)
	}

	dish.Name = strings.TrimSpace(in.Name)
	dish.Price = price
	dish.Ingredients = joinIngredients(in.Ingredients)
	if in.PhotoUrl != nil {
		dish.PhotoUrl = in.PhotoUrl
	}
	if err := cs.DB.Save(&dish).Error; err != nil {
		return nil, internalError(err)
	}
	return &dish, nil
}

// DeleteDish removes the dish outright, there is no soft delete.
func (cs *CatalogService) DeleteDish(id uint) error {
	var dish models.Dish
	if err := cs.DB.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("dish %d not found", id)
		}
		return internalError(err)
	}
	if err := cs.DB.Delete(&dish).Error; err != nil {
		return internalError(err)
	}
	return nil
}

// ToggleActive flips the active flag. Callers get whatever the opposite of
// the current state is, never a forced target state.
func (cs *CatalogService) ToggleActive(id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := cs.DB.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("dish %d not found", id)
		}
		return nil, internalError(err)
	}
	dish.Active = !dish.Active
	if err := cs.DB.Save(&dish).Error; err != nil {
		return nil, internalError(err)
	}
	return &dish, nil
}

func (cs *CatalogService) ListActive() ([]models.Dish, error) {
	var dishes []models.Dish
	if err := cs.DB.Where("active = ?", true).Order("name").Find(&dishes).Error; err != nil {
		return nil, internalError(err)
	}
	return dishes, nil
}

func (cs *CatalogService) ListAll() ([]models.Dish, error) {
	var dishes []models.Dish
	if err := cs.DB.Order("name").Find(&dishes).Error; err != nil {
		return nil, internalError(err)
	}
	return dishes, nil
}

func (cs *CatalogService) GetDish(id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := cs.DB.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("dish %d not found", id)
		}
		return nil, internalError(err)
	}
	return &dish, nil
}
