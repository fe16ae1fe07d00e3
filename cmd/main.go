package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cocktail-odyssey/internal/handlers"
	"cocktail-odyssey/internal/logger"
	"cocktail-odyssey/internal/repository"
	"cocktail-odyssey/internal/server"
	"cocktail-odyssey/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

func main() {
	// load .env if present, then config.yml; env vars win
	_ = godotenv.Load()
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, authConfig(log))
	apiHandler := handlers.NewHandler(services, log)

	// CORS wraps the whole engine: the browser front end is a
	// cross-origin caller carrying an Authorization header.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(apiHandler.InitRoutes())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), corsHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("cocktail")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "cocktail-odyssey.db")
		dbPath = "cocktail-odyssey.db"
	}
	return repository.InitDB(dbPath)
}

// authConfig reads token settings; an empty secret is refused up front
// rather than shipping a signable default.
func authConfig(log *logger.Logger) service.AuthConfig {
	secret := viper.GetString("jwt.secret")
	if secret == "" {
		log.Fatalw("jwt.secret is not configured; set it in configs/config.yml or COCKTAIL_JWT_SECRET")
	}
	return service.AuthConfig{
		SigningKey: secret,
		TokenTTL:   viper.GetDuration("jwt.ttl"),
	}
}

func allowedOrigins() []string {
	if origins := viper.GetStringSlice("cors.origins"); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "3000"
		}
		if err := srv.Run(port, handler); err != nil && err != http.ErrServerClosed {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
