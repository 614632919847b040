package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/services"
	"github.com/cuentaclara/restaurant-pos/utils"
)

const dishUploadDir = "public/uploads/dish_photos"

type DishController struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db, Catalog: services.NewCatalogService(db)}
}

// savePhoto stores an uploaded dish photo and returns its public URL.
func (dc *DishController) savePhoto(c *gin.Context) (*string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		// photo is optional
		return nil, nil
	}

	if err := os.MkdirAll(dishUploadDir, 0755); err != nil {
		return nil, err
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(dishUploadDir, filename)); err != nil {
		return nil, err
	}

	url := "/uploads/dish_photos/" + filename
	return &url, nil
}

// ListActiveDishes -> the menu every role orders from
func (dc *DishController) ListActiveDishes(c *gin.Context) {
	dishes, err := dc.Catalog.ListActive()
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of active dishes", dishes)
}

// ListAllDishes -> the full catalog for the settings screen
func (dc *DishController) ListAllDishes(c *gin.Context) {
	dishes, err := dc.Catalog.ListAll()
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

// CreateDish -> multipart form: name, price, ingredients (repeated), photo
func (dc *DishController) CreateDish(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error parsing form data"))
		return
	}

	photoUrl, err := dc.savePhoto(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving photo"))
		return
	}

	dish, err := dc.Catalog.AddDish(actorFromContext(c), services.DishInput{
		Name:        c.PostForm("name"),
		PriceText:   c.PostForm("price"),
		Ingredients: c.PostFormArray("ingredients"),
		PhotoUrl:    photoUrl,
	})
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Dish created: %s ($%s)", dish.Name, dish.Price.StringFixed(2))
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish -> same form as CreateDish; the photo only changes when a new
// one is uploaded
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("dish_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error parsing form data"))
		return
	}

	photoUrl, err := dc.savePhoto(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving photo"))
		return
	}

	dish, err := dc.Catalog.EditDish(uint(id), services.DishInput{
		Name:        c.PostForm("name"),
		PriceText:   c.PostForm("price"),
		Ingredients: c.PostFormArray("ingredients"),
		PhotoUrl:    photoUrl,
	})
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Dish %d updated", dish.ID)
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

func (dc *DishController) DeleteDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("dish_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := dc.Catalog.DeleteDish(uint(id)); err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Dish %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"dish_id": id})
}

// ToggleDishActive -> each call inverts the current state
func (dc *DishController) ToggleDishActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("dish_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish, err := dc.Catalog.ToggleActive(uint(id))
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("Dish %d active=%v", dish.ID, dish.Active)
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Dish '%s' toggled", dish.Name), dish)
}
