package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"societysync-be/config"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateProfile lets the authenticated user change their own profile fields.
func UpdateProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		Name            *string `json:"name,omitempty"`
		Phone           *string `json:"phone,omitempty"`
		BlockNumber     *string `json:"blockNumber,omitempty"`
		ApartmentNumber *string `json:"apartmentNumber,omitempty"`
		Language        *string `json:"preferredLanguage,omitempty"`
		Specialization  *string `json:"specialization,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Phone != nil {
		update["phone"] = *input.Phone
	}
	if input.BlockNumber != nil {
		update["blockNumber"] = *input.BlockNumber
	}
	if input.ApartmentNumber != nil {
		update["apartmentNumber"] = *input.ApartmentNumber
	}
	if input.Language != nil {
		update["preferredLanguage"] = *input.Language
	}
	if input.Specialization != nil {
		update["specialization"] = *input.Specialization
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := config.GetCollection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); err != nil {
		log.Println("Error updating profile:", err)
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully"})
}

// ChangePassword verifies the current password before setting a new one.
func ChangePassword(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !user.ComparePassword(input.CurrentPassword) {
		respondError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	user.Password = input.NewPassword
	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"password": user.Password, "updatedAt": time.Now()}}
	if _, err := config.GetCollection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		log.Println("Error updating password:", err)
		respondError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// ListTechnicians returns all technicians with their ratings, for the
// committee's assignment picker.
func ListTechnicians(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "rating.average", Value: -1}}).
		SetProjection(bson.M{"password": 0, "rating.scores": 0})

	cursor, err := config.GetCollection("users").Find(ctx, bson.M{"role": models.RoleTechnician}, findOptions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve technicians")
		return
	}
	defer cursor.Close(ctx)

	var technicians []models.User
	if err := cursor.All(ctx, &technicians); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode technicians")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "technicians": technicians})
}
