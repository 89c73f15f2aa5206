package routes

import (
	"net/http"

	"telecare/auth"
	"telecare/groups"
	"telecare/messages"
	"telecare/middleware"
	"telecare/notes"
	"telecare/ratelim"
	"telecare/sessions"
	"telecare/users"
	"telecare/wallet"
	"telecare/ws"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/user/photo/*filepath", http.Dir("static/uploads/user/photo"))
	router.ServeFiles("/static/uploads/user/thumb/*filepath", http.Dir("static/uploads/user/thumb"))
	router.ServeFiles("/static/uploads/message/photo/*filepath", http.Dir("static/uploads/message/photo"))
	router.ServeFiles("/static/uploads/message/thumb/*filepath", http.Dir("static/uploads/message/thumb"))
	router.ServeFiles("/static/uploads/message/audio/*filepath", http.Dir("static/uploads/message/audio"))
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/auth/signup", rateLimiter.Limit(auth.Signup))
	router.POST("/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/auth/logout", auth.Logout)
}

func AddUserRoutes(router *httprouter.Router) {
	router.GET("/users", middleware.Authenticate(users.GetAllUsers))
	router.GET("/users/:id", middleware.Authenticate(users.GetUserByID))
	router.PATCH("/users/:id", middleware.Authenticate(users.ActivateUser))
}

func AddSessionRoutes(router *httprouter.Router, hub *ws.Hub) {
	router.POST("/session", middleware.Authenticate(sessions.CreateSession(hub)))
	router.GET("/session/accepted/:id", middleware.Authenticate(sessions.GetAcceptedSessions))
	router.GET("/session/pending/:id", middleware.Authenticate(sessions.GetPendingSessions))
	router.PATCH("/session/accept/:id", middleware.Authenticate(sessions.AcceptSession))
	router.DELETE("/session/:id", middleware.Authenticate(sessions.RemoveSession))
}

func AddMessageRoutes(router *httprouter.Router, hub *ws.Hub) {
	router.POST("/message/send", middleware.Authenticate(messages.SendMessage(hub)))
	router.GET("/message/conversation/:user1/:user2", middleware.Authenticate(messages.GetMessages))
	router.DELETE("/message", middleware.Authenticate(messages.DeleteAllMessages(hub)))
	router.DELETE("/message/message/:id", middleware.Authenticate(messages.DeleteMessage(hub)))
	router.DELETE("/message/conversation/:user1/:user2", middleware.Authenticate(messages.DeleteConversation(hub)))

	router.POST("/message/send-audio", middleware.Authenticate(messages.SendAudioMessage))
	router.POST("/message/send-image", middleware.Authenticate(messages.SendImageMessage(hub)))

	router.GET("/message/messages/audio/:senderId/:receiverId", middleware.Authenticate(messages.GetAudioMessages))
	router.GET("/message/messages/image/:senderId/:receiverId", middleware.Authenticate(messages.GetImageMessages))
	router.GET("/message/messages/user/:userId", middleware.Authenticate(messages.GetMessagesByUser))
	router.GET("/message/messages/group/:groupId", middleware.Authenticate(messages.GetMessagesByGroup))
}

func AddNoteRoutes(router *httprouter.Router) {
	router.GET("/note", middleware.Authenticate(notes.GetAllNotes))
	router.GET("/note/conversation/:conversationId", middleware.Authenticate(notes.GetNotesByConversation))
	router.GET("/note/group/:groupId", middleware.Authenticate(notes.GetNotesByGroup))
	router.GET("/note/admin", middleware.Authenticate(notes.GetAdminNotes))
	router.POST("/note", middleware.Authenticate(notes.CreateNote))
	router.POST("/note/admin", middleware.Authenticate(notes.CreateAdminNote))
	router.PATCH("/note/:id", middleware.Authenticate(notes.UpdateNote))
	router.DELETE("/note/:id", middleware.Authenticate(notes.DeleteNote))
}

func AddWalletRoutes(router *httprouter.Router) {
	router.GET("/wallet/:userId", middleware.Authenticate(wallet.GetWallet))
	router.POST("/wallet", middleware.Authenticate(wallet.UpsertWallet))
}

func AddGroupRoutes(router *httprouter.Router) {
	router.POST("/groups/create", middleware.Authenticate(groups.CreateGroup))
	router.DELETE("/groups/:id", middleware.Authenticate(groups.DeleteGroup))
	router.PUT("/groups/:id", middleware.Authenticate(groups.UpdateGroup))
	router.PUT("/groups/:id/add-user", middleware.Authenticate(groups.AddUserToGroup))
	router.GET("/groups", middleware.Authenticate(groups.GetGroups))
	router.GET("/groups/user/:userId", middleware.Authenticate(groups.GetGroupsByUser))
}

func AddWebsockRoutes(router *httprouter.Router, hub *ws.Hub) {
	router.GET("/ws", ws.WebSocketHandler(hub))
}
