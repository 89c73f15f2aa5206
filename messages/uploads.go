package messages

import (
	"context"
	"net/http"
	"time"

	"telecare/db"
	"telecare/filemgr"
	"telecare/models"
	"telecare/utils"
	"telecare/ws"

	"github.com/julienschmidt/httprouter"
)

const maxUploadBytes = 10 << 20

func uploadURL(picType filemgr.PictureType, name string) string {
	return "/" + filemgr.ResolvePath(filemgr.EntityMessage, picType) + "/" + name
}

// SendAudioMessage stores a voice message. No socket push; the client polls
// the audio conversation endpoint.
func SendAudioMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	senderID := r.FormValue("senderId")
	receiverID := r.FormValue("receiverId")
	if senderID == "" || receiverID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	name, err := filemgr.SaveFormFile(r.MultipartForm, "audio", filemgr.EntityMessage, filemgr.PicAudio, true)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Audio file is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg := models.Message{
		MessageID:  utils.NewMessageID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       models.MessageTypeAudio,
		AudioURL:   uploadURL(filemgr.PicAudio, name),
		Timestamp:  parseTimestamp(r.FormValue("timestamp")),
	}

	if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send audio message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "message": msg})
}

// SendImageMessage stores an image message and pushes it to the receiver's
// connection when present.
func SendImageMessage(hub *ws.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
			return
		}

		senderID := r.FormValue("senderId")
		receiverID := r.FormValue("receiverId")
		if senderID == "" || receiverID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		name, err := filemgr.SaveFormFile(r.MultipartForm, "image", filemgr.EntityMessage, filemgr.PicPhoto, true)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Image file is required.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		msg := models.Message{
			MessageID:  utils.NewMessageID(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Type:       models.MessageTypeImage,
			ImageURL:   uploadURL(filemgr.PicPhoto, name),
			Timestamp:  parseTimestamp(r.FormValue("timestamp")),
		}

		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send image message.")
			return
		}

		hub.SendToUser(receiverID, ws.EventNewImageMessage, msg)
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "message": msg})
	}
}

// GetAudioMessages returns the pair's voice messages, oldest first.
func GetAudioMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := findMessages(ctx, pairFilter(models.MessageTypeAudio, ps.ByName("senderId"), ps.ByName("receiverId")))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch audio messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, msgs)
}

// GetImageMessages returns the pair's image messages, oldest first.
func GetImageMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := findMessages(ctx, pairFilter(models.MessageTypeImage, ps.ByName("senderId"), ps.ByName("receiverId")))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch image messages.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "messages": msgs})
}

func parseTimestamp(raw string) time.Time {
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Now()
}
