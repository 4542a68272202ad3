package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esomero/backend/internal/auth"
	"esomero/backend/internal/gateway"
	"esomero/backend/internal/marks"
	"esomero/backend/internal/report"
	"esomero/backend/internal/shared"
	"esomero/backend/internal/student"
)

func main() {
	log.Println("INFO: Starting Esomero Server...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	config, err := shared.LoadServerConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := shared.ValidateServerConfig(config); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	if config.IsDevelopment() {
		shared.PrintConfig(config)
	}

	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	studentService := student.NewService(db)
	markService := marks.NewService(db)
	services := &gateway.Services{
		Auth:     auth.NewService(db, config),
		Students: studentService,
		Marks:    markService,
		Reports:  report.NewService(studentService, markService),
	}

	router := gateway.SetupRoutes(config, services)

	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("INFO: Server listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown error: %v", err)
	}
	log.Println("INFO: Server stopped.")
}
