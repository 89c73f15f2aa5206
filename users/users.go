package users

import (
	"context"
	"net/http"
	"time"

	"telecare/db"
	"telecare/models"
	"telecare/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllUsers lists every account, passwords excluded by the model tags.
func GetAllUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetUserByID returns one account.
func GetUserByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": ps.ByName("id")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// ActivateUser marks an account active (admin approval after signup).
func ActivateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": ps.ByName("id")},
		bson.M{"$set": bson.M{"active": true, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "User updated successfully",
		"user":    user,
	})
}
