package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/aidana-b/moodiary/internal/config"
	"github.com/aidana-b/moodiary/internal/database"
	"github.com/aidana-b/moodiary/internal/handlers"
	"github.com/aidana-b/moodiary/internal/repository"
	"github.com/aidana-b/moodiary/internal/services"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/aidana-b/moodiary/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	edgeRepo := repository.NewFriendEdgeRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	scoreRepo := repository.NewFeelingScoreRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, profileRepo, cfg.FrontendURL)
	friendListService := services.NewFriendListService(edgeRepo, profileRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	moodTrendService := services.NewMoodTrendService(scoreRepo)

	// The hub doubles as the edge-change notifier: every relationship
	// mutation re-projects the friend lists of both affected users.
	friendListHub := handlers.NewFriendListHub(friendListService, cfg.JWTSecret)

	relationshipService := services.NewRelationshipService(edgeRepo, profileRepo, friendListHub)
	diaryService := services.NewDiaryService(diaryRepo, scoreRepo, edgeRepo, profileRepo, moodTrendService, notificationService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(relationshipService, friendListService, userService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")

	// Protected profile routes
	protectedUserRoutes := router.PathPrefix("/profiles").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetMyProfileHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/me", userHandler.UpdateMyProfileHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/me", userHandler.DeleteMyAccountHandler).Methods("DELETE")
	protectedUserRoutes.HandleFunc("/search/{handle}", userHandler.SearchProfileHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users/{id}", userHandler.GetUserHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/pending", friendHandler.GetPendingApprovalsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/{edgeId}/approve", friendHandler.ApproveFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{edgeId}/block", friendHandler.UpdateBlockStatusHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{edgeId}", friendHandler.RemoveFriendHandler).Methods("DELETE")
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")

	// Diary routes
	protectedDiaryRoutes := router.PathPrefix("/diary").Subrouter()
	protectedDiaryRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedDiaryRoutes.HandleFunc("", diaryHandler.CreateEntryHandler).Methods("POST")
	protectedDiaryRoutes.HandleFunc("", diaryHandler.GetEntriesHandler).Methods("GET")
	protectedDiaryRoutes.HandleFunc("/friend/{profileId}", diaryHandler.GetFriendEntriesHandler).Methods("GET")
	protectedDiaryRoutes.HandleFunc("/{id}", diaryHandler.GetEntryHandler).Methods("GET")
	protectedDiaryRoutes.HandleFunc("/{id}", diaryHandler.UpdateEntryHandler).Methods("PUT")
	protectedDiaryRoutes.HandleFunc("/{id}", diaryHandler.DeleteEntryHandler).Methods("DELETE")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Realtime friend list subscription (token via query string)
	router.HandleFunc("/ws/friends", friendListHub.ServeWS)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
