package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Dan9191/task-service/internal/config"
	"github.com/Dan9191/task-service/internal/handler"
	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/scheduler"
	"github.com/Dan9191/task-service/internal/service"
	"github.com/Dan9191/task-service/internal/token"
	"github.com/Dan9191/task-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		logger.Fatalf("Failed to ensure schema: %v", err)
	}

	tokens, err := token.NewManager(cfg.SecretKey, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatalf("Failed to initialize token manager: %v", err)
	}

	var mail *email.Sender
	var svcMail service.Mailer
	if cfg.SMTPHost != "" {
		mail = email.NewSender(cfg, logger)
		svcMail = mail
	}

	svc := service.NewService(repo, tokens, svcMail, logger)
	h := handler.NewHandler(svc, logger)

	// Open-task digest runs only when mail delivery is configured
	if mail != nil {
		sched, err := scheduler.New(cfg.DigestCron, repo, mail, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/users", h.Register).Methods("POST")
	r.HandleFunc("/users", h.ListUsers).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods("PUT")
	r.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/token", h.Token).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/tasks").Subrouter()
	authRouter.Use(middleware.Auth(tokens, repo, logger))
	authRouter.HandleFunc("", h.ListTasks).Methods("GET")
	authRouter.HandleFunc("", h.CreateTask).Methods("POST")
	authRouter.HandleFunc("/export", h.ExportTasks).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.GetTask).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.UpdateTask).Methods("PUT")
	authRouter.HandleFunc("/{id:[0-9]+}", h.DeleteTask).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
