package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"telecare/db"
	"telecare/models"
	"telecare/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type groupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateGroup starts a new group chat.
func CreateGroup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Group name is required")
		return
	}

	group := models.Group{
		GroupID:   "group_" + uuid.New().String(),
		Name:      req.Name,
		Members:   req.Members,
		CreatedAt: time.Now(),
	}
	if group.Members == nil {
		group.Members = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.GroupsCollection.InsertOne(ctx, group); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "group": group})
}

// DeleteGroup removes a group by id.
func DeleteGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.GroupsCollection.DeleteOne(ctx, bson.M{"groupid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Group not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// UpdateGroup renames a group and/or replaces its member list.
func UpdateGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Members != nil {
		set["members"] = req.Members
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var group models.Group
	err := db.GroupsCollection.FindOneAndUpdate(ctx,
		bson.M{"groupid": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&group)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update group")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "group": group})
}

// AddUserToGroup adds a member; adding an existing member is a no-op.
func AddUserToGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var group models.Group
	err := db.GroupsCollection.FindOneAndUpdate(ctx,
		bson.M{"groupid": ps.ByName("id")},
		bson.M{
			"$addToSet": bson.M{"members": req.UserID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&group)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update group")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "group": group})
}

// GetGroups lists all groups.
func GetGroups(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listGroups(w, r, bson.M{})
}

// GetGroupsByUser lists groups the user is a member of.
func GetGroupsByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listGroups(w, r, bson.M{"members": ps.ByName("userId")})
}

func listGroups(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.GroupsCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch groups")
		return
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode groups")
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "groups": groups})
}
