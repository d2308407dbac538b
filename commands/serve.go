package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/events"
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/metrics"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/Kariqs/netshop-api/routes"
	"github.com/Kariqs/netshop-api/services"
	"github.com/Kariqs/netshop-api/storage"
	"github.com/Kariqs/netshop-api/utils"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func newServer() *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(), metrics.Default.Middleware())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     initializers.Cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server)
	return server
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if initializers.Cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if err := openDatabase(); err != nil {
		return err
	}
	if err := services.NewCatalogService(initializers.DB).ValidateCategoryMapping(ctx); err != nil {
		return fmt.Errorf("stored categories without a product variant: %w", err)
	}
	if err := initializers.ConnectToRedis(ctx); err != nil {
		return err
	}

	publisher := events.New(initializers.Cfg.KafkaBrokers)
	var uploader storage.Uploader
	if initializers.Cfg.S3Bucket != "" {
		s3Uploader, err := storage.NewS3Uploader(ctx, initializers.Cfg.S3Bucket)
		if err != nil {
			return err
		}
		uploader = s3Uploader
	}
	controllers.Setup(controllers.Deps{
		Publisher: publisher,
		Notifier: utils.Mailer{
			From:        initializers.Cfg.FromEmail,
			Password:    initializers.Cfg.FromEmailPassword,
			SMTPHost:    initializers.Cfg.FromEmailSMTP,
			SMTPAddress: initializers.Cfg.SMTPAddress,
			TemplateDir: "templates",
		},
		Images:  uploader,
		Metrics: metrics.Default,
	})

	if initializers.Cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              ":" + initializers.Cfg.Port,
		Handler:           newServer(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"netshop": func(ctx context.Context) error {
			// stop taking requests before closing what they use
			err := httpServer.Shutdown(ctx)
			if kp, ok := publisher.(*events.KafkaPublisher); ok {
				err = errors.Join(err, kp.Close())
			}
			if initializers.Redis != nil {
				err = errors.Join(err, initializers.Redis.Close())
			}
			return errors.Join(err, initializers.CloseDB())
		},
	})

	if code := <-wait; code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	slog.Info("server stopped cleanly")
	return nil
}
