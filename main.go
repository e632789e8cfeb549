package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"library-backend/docs"
	"library-backend/internal/catalog"
	"library-backend/internal/lending"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/logger"
	"library-backend/internal/platform/validation"
	"library-backend/internal/readers"
)

// @title                      Library API
// @version                    1.0
// @description                Catalog, readers and lending of a small library.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	configPath := flag.String("config", db.DefaultConfigPath, "path to config.yaml")
	flag.Parse()

	cfg, err := db.LoadConfig(*configPath)
	if err != nil {
		logger.Base().WithError(err).Fatal("load config")
	}

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.WithField("mode", cfg.Mode).WithField("version", cfg.Version).Info("starting")

	if err := validation.Register(); err != nil {
		log.WithError(err).Fatal("register validators")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer conn.Close()
	log.WithField("dbname", cfg.DB.DBName).Info("connected to DB")

	if cfg.DB.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(ctx, conn)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("apply schema")
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           setupRouter(cfg, conn),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.Certificate.Enabled() {
			log.Infof("listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.Infof("listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func setupRouter(cfg *db.Config, conn *sql.DB) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logger.Middleware(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == db.ModeDev {
		// CORS for the local front-end only
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))

		docs.SwaggerInfo.BasePath = "/api/v1"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			logger.FromContext(c.Request.Context()).WithError(err).Warn("healthz: database unreachable")
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	secret := []byte(cfg.Auth.JWTSecret)

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn, secret, cfg.Auth.TokenTTL))

	private := api.Group("", auth.RequireAuth(secret))
	adminOnly := auth.RequireRole(auth.RoleAdmin)
	catalog.RegisterRoutes(private, catalog.NewService(conn), adminOnly)
	readers.RegisterRoutes(private, readers.NewService(conn), adminOnly)
	lending.RegisterRoutes(private, lending.NewService(conn, cfg.Lending.LoanPeriodDays), adminOnly)

	return r
}
