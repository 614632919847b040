package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/services"
	"github.com/cuentaclara/restaurant-pos/utils"
)

type UserController struct {
	DB    *gorm.DB
	Users *services.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Users: services.NewUserService(db)}
}

// Register -> public bootstrap registration, always via the strict limiter
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Register(services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{"user_id": user.ID})
}

// Login -> name or email plus password, returns a JWT
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Authenticate(req.Login, req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
	})
}

// GetProfile -> the authenticated user's own record
func (uc *UserController) GetProfile(c *gin.Context) {
	actor := actorFromContext(c)
	user, err := uc.Users.GetUser(actor.UserID)
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// ListUsers -> user center listing, optional ?role= filter
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Users.ListUsers(c.Query("role"))
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// CreateUser -> admin adds staff from the user center
func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Register(services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("User added from user center: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
		PhotoUrl *string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.UpdateUser(uint(id), services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		PhotoUrl: req.PhotoUrl,
	})
	if err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("User %d updated", user.ID)
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := uc.Users.DeleteUser(uint(id), actorFromContext(c)); err != nil {
		utils.RespondError(c, services.HTTPStatus(err), err)
		return
	}

	utils.InfoLogger.Printf("User %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"user_id": id})
}
