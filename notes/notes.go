package notes

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

func listNotes(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.NotesCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching notes")
		return
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding notes")
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	utils.RespondWithJSON(w, http.StatusOK, notes)
}

// GetAllNotes lists every note.
func GetAllNotes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listNotes(w, r, bson.M{"type": "note"})
}

// GetNotesByConversation lists notes attached to one conversation.
func GetNotesByConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listNotes(w, r, bson.M{"type": "note", "conversationId": ps.ByName("conversationId")})
}

// GetNotesByGroup lists notes attached to a group.
func GetNotesByGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	groupID := ps.ByName("groupId")
	if groupID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Group ID is required")
		return
	}
	listNotes(w, r, bson.M{"type": "note", "groupId": groupID})
}

// GetAdminNotes lists notes addressed to the admin.
func GetAdminNotes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listNotes(w, r, bson.M{"type": "note", "toAdmin": true})
}

type createNoteRequest struct {
	Text           string `json:"text"`
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	ReceiverID     string `json:"receiverId"`
	GroupID        string `json:"groupId"`
}

// CreateNote attaches a note to a conversation or a receiver.
func CreateNote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.UserID == "" {
		req.UserID = utils.GetUserIDFromRequest(r)
	}
	if req.Text == "" || req.UserID == "" || (req.ConversationID == "" && req.ReceiverID == "") {
		utils.RespondWithError(w, http.StatusBadRequest,
			"text, userId, and either conversationId or receiverId are required")
		return
	}

	insertNote(w, r, models.Note{
		NoteID:         "note_" + uuid.New().String(),
		Text:           req.Text,
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		ReceiverID:     req.ReceiverID,
		GroupID:        req.GroupID,
		Type:           "note",
		CreatedAt:      time.Now(),
	}, "Note created")
}

// CreateAdminNote files a note addressed to the admin.
func CreateAdminNote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.UserID == "" {
		req.UserID = utils.GetUserIDFromRequest(r)
	}
	if req.Text == "" || req.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Text and userId are required")
		return
	}

	insertNote(w, r, models.Note{
		NoteID:    "note_" + uuid.New().String(),
		Text:      req.Text,
		UserID:    req.UserID,
		ToAdmin:   true,
		Type:      "note",
		CreatedAt: time.Now(),
	}, "Admin note created")
}

func insertNote(w http.ResponseWriter, r *http.Request, note models.Note, message string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.NotesCollection.InsertOne(ctx, note); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating note")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": message, "note": note})
}

// UpdateNote replaces a note's text.
func UpdateNote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var note models.Note
	err := db.NotesCollection.FindOneAndUpdate(ctx,
		bson.M{"noteid": id},
		bson.M{"$set": bson.M{"text": req.Text, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&note)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating note")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Note updated", "note": note})
}

// DeleteNote removes a note by id.
func DeleteNote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotesCollection.DeleteOne(ctx, bson.M{"noteid": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting note")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Note not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Note deleted"})
}
