package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/andreyantropov/SkillNotes/handlers"
	"github.com/andreyantropov/SkillNotes/middleware"
	"github.com/andreyantropov/SkillNotes/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	usersRepo := repository.NewUsersRepository(db)
	notesRepo := repository.NewNotesRepository(db)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Loopback only unless TRUSTED_PROXIES says otherwise.
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	authHandler := handlers.NewAuthHandler(usersRepo, jwtSecret)
	notesHandler := handlers.NewNotesHandler(notesRepo)

	r.GET("/health", handlers.HealthCheck)

	authPublic := r.Group("/", middleware.RateLimitAuth())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", authHandler.Login)

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.GET("/notes", notesHandler.GetNotes)
		auth.GET("/notes/:id", notesHandler.GetNote)
		auth.POST("/notes", notesHandler.CreateNote)
		auth.PATCH("/notes/:id", notesHandler.UpdateNote)
		auth.POST("/notes/:id/archive", notesHandler.ArchiveNote)
		auth.POST("/notes/:id/unarchive", notesHandler.UnarchiveNote)
		auth.DELETE("/notes/:id", notesHandler.DeleteNote)
		auth.DELETE("/notes", notesHandler.DeleteArchived)
		auth.GET("/notes/:id/export", notesHandler.ExportNote)
	}

	r.Run(":8080")
}
