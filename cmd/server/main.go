package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"bookshelf/internal/config"
	"bookshelf/internal/controllers"
	"bookshelf/internal/db"
	"bookshelf/internal/middleware"
	"bookshelf/internal/store"
	"bookshelf/internal/token"
	"bookshelf/internal/utils"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	dbConn, err := db.Init(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}

	var email *utils.SMTPClient
	if cfg.MailConfigured() {
		email = utils.NewSMTPClient(cfg.SMTPHost, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	} else {
		log.Warn().Msg("smtp not configured; verification emails disabled")
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	auth := controllers.NewAuthController(store.NewUserStore(dbConn), issuer, email, cfg.BaseURL, log)
	books := controllers.NewBookController(store.NewBookStore(dbConn), log)

	r := gin.Default()
	r.Use(middleware.CORS())

	r.POST("/signup", auth.SignUp)
	r.POST("/login", auth.Login)
	r.GET("/verify", auth.Verify)

	bookRoutes := r.Group("/books")
	{
		bookRoutes.GET("/:userId", books.List)
		bookRoutes.GET("/edit/:id", books.GetForEdit)
		bookRoutes.GET("/details/:id", books.Details)
		bookRoutes.POST("/", books.Create)
		bookRoutes.PUT("/:id", books.Update)
		bookRoutes.DELETE("/:id", books.Delete)
	}

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
