package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"teachersgallery/internal/adapter/api"
	"teachersgallery/internal/adapter/api/handler"
	apimiddleware "teachersgallery/internal/adapter/api/middleware"
	"teachersgallery/internal/adapter/api/router"
	"teachersgallery/internal/adapter/repository"
	"teachersgallery/internal/infrastructure/firebase"
	"teachersgallery/internal/infrastructure/websocket"
	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./serviceAccount.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	teacherProfileRepo := repository.NewFirestoreTeacherProfileRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	presenceRepo := repository.NewFirestorePresenceRepository(firestoreClient)
	phoneRequestRepo := repository.NewFirestorePhoneRequestRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient, userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo)
	teacherProfileUseCase := usecase.NewTeacherProfileUseCase(teacherProfileRepo, userRepo)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, teacherProfileRepo, userRepo, notificationUseCase)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, userRepo, wsManager)
	defer chatUseCase.Close()
	presenceUseCase := usecase.NewPresenceUseCase(presenceRepo, cfg.HeartbeatInterval, cfg.OfflineThreshold)
	phoneRequestUseCase := usecase.NewPhoneRequestUseCase(phoneRequestRepo, userRepo, notificationUseCase, chatUseCase)

	handler.Setup(authUseCase, userUseCase, teacherProfileUseCase, reviewUseCase, phoneRequestUseCase, presenceUseCase, notificationUseCase)
	handler.SetupHealthHandler()
	handler.SetupDevTokenHandler(cfg.JWTSecret, cfg.JWTExpiry, userRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	eventHandler := websocket.NewEventHandler(wsManager, chatUseCase, presenceUseCase)

	chatHandler := handler.NewChatHandler(chatUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, eventHandler, presenceUseCase)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupChatRouter(e, chatHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)
	router.SetupDevRouter(e, cfg.Environment)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
