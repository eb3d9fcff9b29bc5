package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/config"
	appHTTP "github.com/fieldtrack/fieldtrack-backend-go/internal/handler/http"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/jwt"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/sse"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/repository/postgresql"
	locationService "github.com/fieldtrack/fieldtrack-backend-go/internal/service/location"
	sessionService "github.com/fieldtrack/fieldtrack-backend-go/internal/service/session"
	summaryService "github.com/fieldtrack/fieldtrack-backend-go/internal/service/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, database.PoolConfig{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	sessionRepo := postgresql.NewSessionRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	clientRepo := postgresql.NewClientRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.StreamTokenLife)
	hub := sse.NewHub(cfg.Stream.QueueSize)

	sessionSvc := sessionService.NewSessionService(sessionRepo, clientRepo, employeeRepo)
	locationSvc := locationService.NewLocationService(locationRepo, employeeRepo, hub)
	summarySvc := summaryService.NewSummaryService(summaryRepo, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	locationHandler := appHTTP.NewLocationHandler(locationSvc, jwtService, cfg.Stream.KeepaliveInterval)
	summaryHandler := appHTTP.NewSummaryHandler(summarySvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		attendanceHandler,
		locationHandler,
		summaryHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
