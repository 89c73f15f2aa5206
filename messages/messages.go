package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"telecare/db"
	"telecare/models"
	"telecare/sessions"
	"telecare/utils"
	"telecare/ws"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sendMessageRequest struct {
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	GroupID    string     `json:"groupId"`
	Message    string     `json:"message"`
	Timestamp  *time.Time `json:"timestamp"`
	DevMode    bool       `json:"devMode"`
}

var (
	errMissingFields  = errors.New("Missing required fields")
	errBothAddressing = errors.New("Provide either receiverId or groupId, not both")
)

func validateSend(req sendMessageRequest) error {
	if req.SenderID == "" || req.Message == "" || (req.ReceiverID == "" && req.GroupID == "") {
		return errMissingFields
	}
	if req.ReceiverID != "" && req.GroupID != "" {
		return errBothAddressing
	}
	return nil
}

// SendMessage persists a chat message and delivers it in real time when the
// recipient is connected. Group messages are ungated; direct messages pass
// the session window gate first and nothing is written when it rejects.
func SendMessage(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if req.SenderID == "" {
			// Fall back to the authenticated user.
			req.SenderID = utils.GetUserIDFromRequest(r)
		}
		if err := validateSend(req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ts := time.Now()
		if req.Timestamp != nil {
			ts = *req.Timestamp
		}

		msg := models.Message{
			MessageID: utils.NewMessageID(),
			SenderID:  req.SenderID,
			Type:      models.MessageTypeChat,
			Message:   req.Message,
			Timestamp: ts,
		}

		// Group message: no session check.
		if req.GroupID != "" {
			msg.GroupID = req.GroupID
			if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
				return
			}
			hub.Broadcast(ws.EventNewMessage, msg)
			utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "id": msg.MessageID})
			return
		}

		// Direct message: session required.
		if err := sessions.Authorize(ctx, req.SenderID, req.ReceiverID, time.Now(), req.DevMode); err != nil {
			respondGateError(w, err)
			return
		}

		msg.ReceiverID = req.ReceiverID
		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
			return
		}

		hub.SendToUser(req.ReceiverID, ws.EventNewMessage, msg)
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "id": msg.MessageID})
	}
}

func respondGateError(w http.ResponseWriter, err error) {
	var winErr *sessions.WindowError
	switch {
	case errors.Is(err, sessions.ErrNoAcceptedSession):
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{
			"success": false,
			"error":   "No accepted session exists.",
		})
	case errors.As(err, &winErr):
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{
			"success":     false,
			"error":       "You can only send messages between 1 hour before and 2 hours after the session time.",
			"sessionTime": winErr.SessionTime.Format(time.RFC3339),
			"open":        winErr.Open.Format(time.RFC3339),
			"close":       winErr.Close.Format(time.RFC3339),
			"now":         winErr.Now.Format(time.RFC3339),
		})
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

func pairFilter(msgType, a, b string) bson.M {
	return bson.M{
		"type": msgType,
		"$or": []bson.M{
			{"senderId": a, "receiverId": b},
			{"senderId": b, "receiverId": a},
		},
	}
}

func findMessages(ctx context.Context, filter bson.M) ([]models.Message, error) {
	cur, err := db.MessagesCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"timestamp": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// GetMessages returns the text conversation between two users, oldest first.
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := findMessages(ctx, pairFilter(models.MessageTypeChat, ps.ByName("user1"), ps.ByName("user2")))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "messages": msgs})
}

// GetMessagesByUser returns everything sent or received by one user.
func GetMessagesByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := findMessages(ctx, bson.M{
		"$or":  []bson.M{{"senderId": userID}, {"receiverId": userID}},
		"type": bson.M{"$in": []string{models.MessageTypeChat, models.MessageTypeAudio, models.MessageTypeImage}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "messages": msgs})
}

// GetMessagesByGroup returns a group's chat history.
func GetMessagesByGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	groupID := ps.ByName("groupId")
	if groupID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing groupId parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := findMessages(ctx, bson.M{"type": models.MessageTypeChat, "groupId": groupID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch group messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "messages": msgs})
}

// DeleteMessage removes one message by id and tells connected clients.
// Deleting an id that is already gone still succeeds.
func DeleteMessage(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := db.MessagesCollection.DeleteOne(ctx, bson.M{"messageid": id})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Delete failed")
			return
		}

		hub.Broadcast(ws.EventMessageDeleted, utils.M{"messageid": id})
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": true,
			"message": "Message deleted",
			"id":      id,
			"deleted": res.DeletedCount,
		})
	}
}

// DeleteConversation wipes the pair's messages in both directions.
func DeleteConversation(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user1, user2 := ps.ByName("user1"), ps.ByName("user2")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := db.MessagesCollection.DeleteMany(ctx, pairFilter(models.MessageTypeChat, user1, user2))
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Delete failed")
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "No messages found"})
			return
		}

		hub.Broadcast(ws.EventAllMsgsDeleted, utils.M{"user1": user1, "user2": user2})
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "deleted": res.DeletedCount})
	}
}

// DeleteAllMessages wipes every chat message regardless of participant.
func DeleteAllMessages(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := db.MessagesCollection.DeleteMany(ctx, bson.M{"type": models.MessageTypeChat})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Delete failed")
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "No messages to delete."})
			return
		}

		hub.Broadcast(ws.EventAllMsgsDeleted, nil)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "deletedCount": res.DeletedCount})
	}
}
