package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ai-28/suplient/internal/config"
	"github.com/ai-28/suplient/internal/handlers"
	"github.com/ai-28/suplient/internal/middleware"
	"github.com/ai-28/suplient/internal/repository"
	"github.com/ai-28/suplient/internal/services"
	chatws "github.com/ai-28/suplient/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	receiptRepo := repository.NewReadReceiptRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	programRepo := repository.NewProgramRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	chatHub := chatws.NewHub()
	go chatHub.Run()

	guard := services.NewAccessGuard(conversationRepo, messageRepo)
	fanout := services.NewFanoutDispatcher(chatHub)

	chatService := services.NewChatService(
		conversationRepo,
		messageRepo,
		receiptRepo,
		reactionRepo,
		groupRepo,
		userRepo,
		guard,
		fanout,
	)
	clientService := services.NewClientService(clientRepo, userRepo)
	groupService := services.NewGroupService(groupRepo, clientRepo, conversationRepo)
	noteService := services.NewNoteService(noteRepo, clientRepo)
	programService := services.NewProgramService(programRepo, clientRepo)

	var paymentProvider services.PaymentProvider
	if cfg.PaymentsConfigured() {
		paymentProvider = services.NewHTTPPaymentProvider(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	}
	paymentService := services.NewPaymentService(paymentRepo, clientRepo, paymentProvider)

	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	clientHandler := handlers.NewClientHandler(clientService)
	groupHandler := handlers.NewGroupHandler(groupService)
	noteHandler := handlers.NewNoteHandler(noteService)
	programHandler := handlers.NewProgramHandler(programService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	api := app.Group("/api")
	v1 := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	clients := v1.Group("/clients")
	clients.Post("", clientHandler.LinkClient)
	clients.Get("", clientHandler.ListClients)
	clients.Delete("/:id", clientHandler.UnlinkClient)

	groups := v1.Group("/groups")
	groups.Post("", groupHandler.CreateGroup)
	groups.Get("", groupHandler.ListGroups)
	groups.Get("/:id", groupHandler.GetGroup)
	groups.Get("/:id/members", groupHandler.ListMembers)
	groups.Post("/:id/members", groupHandler.AddMember)
	groups.Delete("/:id/members/:userId", groupHandler.RemoveMember)
	groups.Get("/:id/conversation", chatHandler.GetGroupConversation)

	conversations := v1.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)
	conversations.Post("/:id/messages", chatHandler.SendMessage)
	conversations.Post("/:id/read", chatHandler.MarkRead)

	messages := v1.Group("/messages")
	messages.Post("/:id/reactions", chatHandler.AddReaction)
	messages.Delete("/:id/reactions/:emoji", chatHandler.RemoveReaction)

	notes := v1.Group("/notes")
	notes.Post("", noteHandler.CreateNote)
	notes.Get("", noteHandler.ListNotes)
	notes.Put("/:id", noteHandler.UpdateNote)
	notes.Delete("/:id", noteHandler.DeleteNote)

	programs := v1.Group("/programs")
	programs.Post("", programHandler.CreateProgram)
	programs.Get("", programHandler.ListPrograms)
	programs.Post("/:id/enrollments", programHandler.EnrollClient)
	programs.Get("/:id/enrollments", programHandler.ListEnrollments)
	programs.Put("/:id/progress", programHandler.UpdateProgress)

	payments := v1.Group("/payments")
	payments.Post("", paymentHandler.ChargeClient)
	payments.Get("", paymentHandler.ListPayments)
	payments.Get("/:id", paymentHandler.GetPayment)
	payments.Post("/:id/refund", paymentHandler.RefundPayment)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
