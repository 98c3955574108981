package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartbot-backend/internal/config"
	"smartbot-backend/internal/database"
	"smartbot-backend/internal/handlers"
	"smartbot-backend/internal/middleware"
	"smartbot-backend/internal/repository"
	"smartbot-backend/internal/router"
	"smartbot-backend/internal/services"
	"smartbot-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Smart Bot Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ──── Step 2: Start WebSocket Hub (Redis fan-out when configured) ────
	wsHub := websocket.NewHub()
	var broadcaster services.Broadcaster = wsHub

	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()

		relay := websocket.NewRedisRelay(redisClients.Publisher, redisClients.Subscriber, wsHub)
		go relay.Run(ctx)
		broadcaster = relay
		log.Println("✓ Redis connected, conversation updates relayed via pub/sub")
	} else {
		log.Println("✓ WebSocket hub started (in-process)")
	}

	// ──── Step 3: Gemini Session Manager ────
	// The credential is resolved on first use, not here.
	connector := services.NewGeminiConnector()
	defer connector.Close()

	sessions := services.NewSessionManager(
		config.ResolveCredential,
		connector,
		services.DefaultSessionConfig(cfg.GeminiModel),
	)
	exchange := services.NewMessageExchange(sessions, cfg.ChatRequestTimeout)
	log.Printf("✓ Gemini chat configured (model=%s)", cfg.GeminiModel)

	reaper := services.NewIdleReaper(sessions, cfg.SessionIdleTimeout)
	if reaper.Start() {
		log.Printf("✓ Idle session reaper started (timeout=%s)", cfg.SessionIdleTimeout)
	}

	// ──── Step 4: Chat Service & Handlers ────
	conversationRepo := repository.NewConversationRepo()
	chatService := services.NewChatService(conversationRepo, exchange, sessions, broadcaster)
	chatHandler := handlers.NewChatHandler(chatService)

	log.Printf("✓ Conversation %s ready", chatService.ConversationID())

	var chatLimiter *middleware.RateLimiter
	if cfg.ChatRateLimitPerMin > 0 {
		chatLimiter = middleware.NewRateLimiter(cfg.ChatRateLimitPerMin, time.Minute)
		log.Printf("✓ Chat rate limit: %d requests/min per IP", cfg.ChatRateLimitPerMin)
	} else {
		log.Println("✓ Chat rate limit disabled (CHAT_RATE_LIMIT_PER_MIN <= 0)")
	}

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, wsHub, chatLimiter, cfg.FrontendURL)

	// WriteTimeout must outlast a slow model reply
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		reaper.Stop()
		chatLimiter.Stop()
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("✓ Smart Bot Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1/chat", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws?conversation=%s", cfg.Port, chatService.ConversationID())

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
