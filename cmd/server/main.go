package main

import (
	"log"
	"net/http"

	"medinote-backend/internal/config"
	"medinote-backend/internal/database"
	"medinote-backend/internal/handlers"
	"medinote-backend/internal/middleware"
	"medinote-backend/internal/session"
	"medinote-backend/internal/store"
	"medinote-backend/internal/supabase"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Supabase client and the audio bucket storage client taken from it.
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}
	storageClient := supabase.NewStorageClient(supabaseClient)

	// Document store: Postgres when configured, otherwise in-memory.
	var docs store.DocumentStore
	if cfg.DatabaseURL != "" {
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize migrator: %v", err)
		} else {
			defer migrator.Close()
			if err := migrator.Run(); err != nil {
				log.Printf("Warning: Migration failed: %v", err)
			} else {
				log.Println("Migrations completed successfully")
			}
		}

		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to database: %v", err)
		} else {
			defer pg.Close()
			docs = pg
		}
	}
	if docs == nil {
		log.Println("Warning: DATABASE_URL not set. Using in-memory document store; data will not survive restarts.")
		docs = store.NewMemoryStore()
	}

	manager := session.NewManager(docs, storageClient)

	healthHandler := handlers.NewHealthHandler(cfg.Environment)
	audioHandler := handlers.NewAudioHandler(manager)
	sessionsHandler := handlers.NewSessionsHandler(manager, docs)
	patientsHandler := handlers.NewPatientsHandler(docs, manager)
	templatesHandler := handlers.NewTemplatesHandler(docs)
	usersHandler := handlers.NewUsersHandler(docs, manager)
	debugHandler := handlers.NewDebugHandler(docs)

	router := gin.Default()

	router.GET("/", healthHandler.ServiceInfo)
	router.GET("/health", healthHandler.Health)
	router.GET("/debug/sessions", debugHandler.Sessions)

	api := router.Group("/api/v1")
	api.Use(middleware.Identity(cfg))

	// Audio upload workflow
	api.POST("/get-presigned-url", audioHandler.GetPresignedURL)
	api.POST("/notify-chunk-uploaded", audioHandler.NotifyChunkUploaded)
	api.GET("/session/:sessionId/chunks", audioHandler.GetSessionChunks)

	// Recording sessions
	api.POST("/upload-session", sessionsHandler.CreateSession)
	api.GET("/all-session", sessionsHandler.ListSessions)
	api.GET("/session/:sessionId", sessionsHandler.GetSession)
	api.PUT("/session/:sessionId", sessionsHandler.UpdateSession)
	api.DELETE("/session/:sessionId", sessionsHandler.DeleteSession)

	// Patients
	api.GET("/patients", patientsHandler.ListPatients)
	api.POST("/add-patient-ext", patientsHandler.CreatePatient)
	api.GET("/patient-details/:patientId", patientsHandler.GetPatient)
	api.PUT("/patients/:patientId", patientsHandler.UpdatePatient)
	api.DELETE("/patients/:patientId", patientsHandler.DeletePatient)
	api.GET("/fetch-session-by-patient/:patientId", patientsHandler.GetPatientSessions)

	// Templates
	api.GET("/fetch-default-template-ext", templatesHandler.FetchDefaultTemplates)
	api.POST("/templates", templatesHandler.CreateTemplate)
	api.PUT("/templates/:templateId", templatesHandler.UpdateTemplate)
	api.DELETE("/templates/:templateId", templatesHandler.DeleteTemplate)

	// Collections overview for development
	api.GET("/collections", debugHandler.Collections)

	// Users
	users := router.Group("/api/users")
	users.Use(middleware.Identity(cfg))
	users.GET("/asd3fd2faec", usersHandler.GetUserByEmail)
	users.POST("", usersHandler.CreateOrGetUser)
	users.GET("/profile", usersHandler.GetProfile)
	users.PUT("/profile", usersHandler.UpdateProfile)
	users.DELETE("/profile", usersHandler.DeleteProfile)
	users.GET("/stats", usersHandler.GetStats)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
