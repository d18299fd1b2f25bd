package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calorie-assistant/configs"
	"calorie-assistant/routes"
	"calorie-assistant/services"
	"calorie-assistant/ws"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "calorie-assistant",
		Short:        "Calorie tracker API with a shared live current meal",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP and WebSocket server",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations and exit",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate() },
		},
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate() error {
	cfg := configs.LoadConfig()
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return err
	}
	v, err := configs.SchemaVersion(db)
	if err != nil {
		return err
	}
	fmt.Printf("schema at version %d\n", v)
	return nil
}

func serve() error {
	cfg := configs.LoadConfig()

	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedFoods {
		if err := configs.SeedFoods(db); err != nil {
			return fmt.Errorf("seed foods: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewMealHub()
	go hub.Run(ctx)

	var ex services.Extractor
	if cfg.OpenAIKey != "" {
		ex = services.NewOpenAIExtractor(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, voice parsing disabled")
	}

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, routes.NewDeps(db, hub, ex), cfg)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Println("🚀 Server running at", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
