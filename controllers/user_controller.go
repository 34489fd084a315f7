package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/middlewares"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/utils"
)

type UserController struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewUserController(users *services.UserService, tokens *services.TokenService) *UserController {
	return &UserController{users: users, tokens: tokens}
}

type UserInfoResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (u *UserController) Register(c *gin.Context) {
	var input struct {
		DisplayName string `json:"display_name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := u.users.Register(input.DisplayName, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := u.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

func (u *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := u.users.Authenticate(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := u.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

func (u *UserController) GetUserInfo(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	utils.RespondSuccess(c, UserInfoResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil)
}
