package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"societysync-be/config"
	"societysync-be/middlewares"
	"societysync-be/models"
	authUtils "societysync-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterUser handles user registration
func RegisterUser(c *gin.Context) {
	var input struct {
		Name            string `json:"name" binding:"required,max=50"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=6"`
		Phone           string `json:"phone,omitempty"`
		Role            string `json:"role,omitempty"`
		BlockNumber     string `json:"blockNumber,omitempty"`
		ApartmentNumber string `json:"apartmentNumber,omitempty"`
		Language        string `json:"preferredLanguage,omitempty"`
		Specialization  string `json:"specialization,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role := models.RoleResident
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			respondError(c, http.StatusBadRequest, "Invalid role")
			return
		}
		role = models.UserRole(input.Role)
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing user:", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "User with this email already exists")
		return
	}

	user := models.User{
		Name:              input.Name,
		Email:             input.Email,
		Password:          input.Password,
		Phone:             input.Phone,
		Role:              role,
		BlockNumber:       input.BlockNumber,
		ApartmentNumber:   input.ApartmentNumber,
		PreferredLanguage: input.Language,
		Specialization:    input.Specialization,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	result, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		// A concurrent register can slip past the count check; the unique
		// index on email catches it here.
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, "User with this email already exists")
			return
		}
		log.Println("Error inserting user:", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	recordAudit(c, models.AuditRegister, nil, "success", map[string]any{"email": user.Email, "role": user.Role})

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"id":        result.InsertedID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}

// LoginUser handles user login
func LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		recordAudit(c, models.AuditLogin, nil, "failure", map[string]any{"email": input.Email})
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.ComparePassword(input.Password) {
		recordAudit(c, models.AuditLogin, &user.ID, "failure", map[string]any{"email": input.Email})
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := authUtils.GenerateToken(user.ID.Hex())
	if err != nil {
		log.Println("Error generating token:", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		MaxAge:   int(authUtils.TokenTTL.Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)

	recordAudit(c, models.AuditLogin, &user.ID, "success", nil)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"token":     token,
		"createdAt": user.CreatedAt,
	})
}

// GetMe retrieves the authenticated user's information
func GetMe(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"phone":             user.Phone,
		"role":              user.Role,
		"blockNumber":       user.BlockNumber,
		"apartmentNumber":   user.ApartmentNumber,
		"preferredLanguage": user.PreferredLanguage,
		"rating":            user.Rating,
		"createdAt":         user.CreatedAt,
	})
}

// LogoutUser handles user logout by clearing the token cookie
func LogoutUser(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("token", "", -1, "/", domain, environment == "production", true)

	recordAudit(c, models.AuditLogout, nil, "success", nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
