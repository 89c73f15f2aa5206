package ws

// Server-to-client event names. These match what the web client listens for.
const (
	EventNewMessage      = "newMessage"
	EventNewImageMessage = "newImageMessage"
	EventMessageDeleted  = "messageDeleted"
	EventAllMsgsDeleted  = "allMessagesDeleted"
	EventIncomingCall    = "incoming-call"
	EventCallAccepted    = "call-accepted"
	EventICECandidate    = "ice-candidate"
	EventCallEnded       = "call-ended"
	EventNewSession      = "new-session"
	EventSessionReminder = "session-reminder"
)

// Client-to-server action names.
const (
	actionSendMessage       = "sendMessage"
	actionCallUser          = "call-user"
	actionAnswerCall        = "answer-call"
	actionICECandidate      = "ice-candidate"
	actionEndCall           = "end-call"
	actionNewSessionCreated = "new-session-created"
	actionSessionReminder   = "session-reminder"
)

// Envelope is the wire format for every server-to-client event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
