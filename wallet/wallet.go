package wallet

import (
	"context"
	"encoding/json"
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

// GetWallet returns a user's wallet by user id.
func GetWallet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var wallet models.Wallet
	err := db.WalletsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Wallet not found"})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wallet")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "wallet": wallet})
}

type upsertWalletRequest struct {
	UserID     string  `json:"userId"`
	CardNumber string  `json:"cardNumber"`
	CardHolder string  `json:"cardHolder"`
	Expiry     string  `json:"expiry"`
	CVV        string  `json:"cvv"`
	Amount     float64 `json:"amount"`
}

// UpsertWallet creates the wallet on first top-up and credits it afterwards.
// The credit and card refresh happen in a single upsert so a concurrent
// session booking never sees a half-applied top-up.
func UpsertWallet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req upsertWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.UserID == "" || req.CardNumber == "" || req.CardHolder == "" || req.Expiry == "" || req.CVV == "" || req.Amount <= 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": "Missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var wallet models.Wallet
	err := db.WalletsCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": req.UserID},
		bson.M{
			"$inc": bson.M{"balance": req.Amount},
			"$set": bson.M{
				"cardNumber": req.CardNumber,
				"cardHolder": req.CardHolder,
				"expiry":     req.Expiry,
				"cvv":        req.CVV,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&wallet)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wallet")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "wallet": wallet})
}
