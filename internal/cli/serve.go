package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"learnify/internal/auth"
	"learnify/internal/config"
	"learnify/internal/course"
	"learnify/internal/quiz"
	"learnify/pkg/cache"
	"learnify/pkg/database"
	"learnify/pkg/websocket"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Learnify quiz service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*envFile)
		},
	}
}

func runServer(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cfg.RedisAddr)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	authRepo := auth.NewRepository(db)
	courseRepo := course.NewRepository(db)
	quizRepo := quiz.NewRepository(db)

	authService := auth.NewService(authRepo, cfg.JWTSecret)
	courseService := course.NewService(courseRepo)
	quizService := quiz.NewService(quizRepo, redisCache, wsHub)

	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(courseService)
	quizHandler := quiz.NewHandler(quizService, wsHub)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// auth routes, no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// everything else requires a token
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))

	apiRouter.HandleFunc("/courses", courseHandler.CreateCourse).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/courses/my", courseHandler.GetMyCourses).Methods("GET")
	apiRouter.HandleFunc("/courses/{id}/lessons", courseHandler.AddLesson).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/quiz", quizHandler.CreateQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{id}", quizHandler.GetQuiz).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{id}/questions", quizHandler.AddQuestion).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id}", quizHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id}", quizHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id}/correct-option", quizHandler.SetCorrectOption).Methods("PUT", "OPTIONS")

	apiRouter.HandleFunc("/quiz/{id}/start", quizHandler.StartAttempt).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{id}/submit", quizHandler.SubmitAttempt).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{id}/attempts", quizHandler.ListAttempts).Methods("GET")
	apiRouter.HandleFunc("/quiz/{id}/leaderboard", quizHandler.GetLeaderboard).Methods("GET")
	apiRouter.HandleFunc("/certificates/my", quizHandler.GetMyCertificates).Methods("GET")

	// instructor live attempt feed
	wsRouter := router.PathPrefix("/ws").Subrouter()
	wsRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))
	wsRouter.HandleFunc("/quiz/{id}", quizHandler.WatchQuiz)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
	return nil
}
