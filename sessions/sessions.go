package sessions

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"telecare/db"
	"telecare/models"
	"telecare/utils"
	"telecare/ws"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createSessionRequest struct {
	RequesterID string  `json:"requesterId"`
	ReceiverID  string  `json:"receiverId"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Note        string  `json:"note"`
	Price       float64 `json:"price"`
}

// debitQuery builds the conditional wallet debit. The balance guard in the
// filter is what keeps concurrent bookings from overdrawing: the update
// only matches while the wallet still covers the price.
func debitQuery(userID string, price float64) (filter, update bson.M) {
	return bson.M{"userId": userID, "balance": bson.M{"$gte": price}},
		bson.M{"$inc": bson.M{"balance": -price}}
}

// refundUpdate reverses a debit of price.
func refundUpdate(price float64) bson.M {
	return bson.M{"$inc": bson.M{"balance": price}}
}

// debitFailureStatus maps a failed conditional debit to a response, given
// how many wallet documents exist for the user: no wallet at all is not
// found, an existing wallet that did not match means it cannot cover the
// price.
func debitFailureStatus(walletCount int64) (int, string) {
	if walletCount == 0 {
		return http.StatusNotFound, "Wallet not found"
	}
	return http.StatusConflict, "Insufficient balance"
}

// CreateSession books a consultation and takes payment in one step. The
// wallet debit is a conditional update (balance must cover the price), so
// two concurrent bookings cannot overdraw the same wallet.
func CreateSession(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}

		if req.RequesterID == "" || req.ReceiverID == "" || req.Date == "" || req.Time == "" || req.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		if _, err := Instant(req.Date, req.Time); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid date or time")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		filter, update := debitQuery(req.RequesterID, req.Price)

		var wallet models.Wallet
		err := db.WalletsCollection.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&wallet)
		if err == mongo.ErrNoDocuments {
			// Either no wallet or not enough in it; tell the caller which.
			count, cerr := db.WalletsCollection.CountDocuments(ctx, bson.M{"userId": req.RequesterID})
			if cerr != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
				return
			}
			status, msg := debitFailureStatus(count)
			utils.RespondWithError(w, status, msg)
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
			return
		}

		session := models.Session{
			SessionID:   "session_" + uuid.New().String(),
			RequesterID: req.RequesterID,
			ReceiverID:  req.ReceiverID,
			Date:        req.Date,
			Time:        req.Time,
			Note:        req.Note,
			Price:       req.Price,
			IsAccepted:  false,
			IsPaid:      true,
			CreatedAt:   time.Now(),
		}

		if _, err := db.SessionsCollection.InsertOne(ctx, session); err != nil {
			// Refund the debit so the wallet and session stay consistent.
			if _, rerr := db.WalletsCollection.UpdateOne(ctx,
				bson.M{"userId": req.RequesterID},
				refundUpdate(req.Price),
			); rerr != nil {
				log.Printf("session create: refund for %s failed: %v", req.RequesterID, rerr)
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		hub.SendToUser(req.ReceiverID, ws.EventNewSession, session)

		utils.RespondWithJSON(w, http.StatusCreated, utils.M{
			"success": true,
			"message": "Session created and payment successful",
			"session": session,
			"wallet":  wallet,
		})
	}
}

// GetAcceptedSessions lists upcoming accepted sessions the user takes part in.
func GetAcceptedSessions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listSessions(w, r, ps.ByName("id"), true)
}

// GetPendingSessions lists upcoming sessions still waiting for acceptance.
func GetPendingSessions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listSessions(w, r, ps.ByName("id"), false)
}

func listSessions(w http.ResponseWriter, r *http.Request, userID string, accepted bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")
	cur, err := db.SessionsCollection.Find(ctx, bson.M{
		"isAccepted": accepted,
		"$or": []bson.M{
			{"requesterId": userID},
			{"receiverId": userID},
		},
		"date": bson.M{"$gte": today},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}
	defer cur.Close(ctx)

	var sessions []models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode sessions")
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	utils.RespondWithJSON(w, http.StatusOK, sessions)
}

// AcceptSession flips isAccepted on an existing session.
func AcceptSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Session
	err := db.SessionsCollection.FindOneAndUpdate(ctx,
		bson.M{"sessionid": id},
		bson.M{"$set": bson.M{"isAccepted": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "session": updated})
}

// RemoveSession deletes a session by id.
func RemoveSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.SessionsCollection.DeleteOne(ctx, bson.M{"sessionid": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Session deleted"})
}
