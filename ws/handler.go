package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"telecare/db"
	"telecare/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inbound is what clients send us over the socket.
type inbound struct {
	Action       string          `json:"action"`
	ReceiverID   string          `json:"receiverId,omitempty"`
	TargetUserID string          `json:"targetUserId,omitempty"`
	FromUserID   string          `json:"fromUserId,omitempty"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	Signal       json.RawMessage `json:"signal,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
	Duration     int64           `json:"duration,omitempty"`
	Session      json.RawMessage `json:"session,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// WebSocketHandler upgrades the connection and registers the user's
// presence. The user id comes from the connection query, matching the
// client's `?userId=` handshake.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "missing userId", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 256),
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("ws: invalid payload:", err)
			continue
		}

		switch in.Action {
		case actionSendMessage:
			hub.SendToUser(in.ReceiverID, EventNewMessage, in.Data)

		case actionCallUser:
			hub.SendToUser(in.TargetUserID, EventIncomingCall, map[string]any{
				"signal": in.Signal,
				"from":   in.FromUserID,
			})

		case actionAnswerCall:
			hub.SendToUser(in.To, EventCallAccepted, map[string]any{
				"signal": in.Signal,
			})

		case actionICECandidate:
			hub.SendToUser(in.TargetUserID, EventICECandidate, map[string]any{
				"candidate": in.Candidate,
				"from":      in.FromUserID,
			})

		case actionEndCall:
			hub.SendToUser(in.To, EventCallEnded, nil)
			saveCallLog(in.From, in.To, in.Duration)

		case actionNewSessionCreated:
			hub.SendToUser(in.ReceiverID, EventNewSession, in.Session)

		case actionSessionReminder:
			hub.SendToUser(in.ReceiverID, EventSessionReminder, in.Message)

		default:
			log.Println("ws: unknown action:", in.Action)
		}
	}
}

func saveCallLog(from, to string, duration int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.CallLog{
		From:      from,
		To:        to,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	if _, err := db.CallLogsCollection.InsertOne(ctx, entry); err != nil {
		log.Println("ws: save call log:", err)
	}
}
