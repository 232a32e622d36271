package main

import (
	"os"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/infra/db"
	infrarepo "app/internal/infra/repository"
	"app/internal/mail"
	"app/internal/notify"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// .envがあれば読む（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config load failed")
	}

	log := newLogger(cfg)

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	// repository
	userRepo := infrarepo.NewUserGormRepository(gdb)
	productRepo := infrarepo.NewProductGormRepository(gdb)
	cartItemRepo := infrarepo.NewCartItemGormRepository(gdb)
	notificationRepo := infrarepo.NewNotificationGormRepository(gdb)
	enquiryRepo := infrarepo.NewEnquiryGormRepository(gdb)
	emailLogRepo := infrarepo.NewEmailLogGormRepository(gdb)
	settingRepo := infrarepo.NewSettingGormRepository(gdb)
	txManager := infrarepo.NewTxManagerGorm(gdb)

	// mail / notify
	var mailer mail.Mailer = mail.NopMailer{Log: log}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, emailLogRepo, log)
	}
	notifier := notify.New(notificationRepo, mailer, cfg.AdminEmail, log)

	// usecase
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, notifier, log)
	paymentUC := usecase.NewPaymentUsecase(txManager, log)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	enquiryUC := usecase.NewEnquiryUsecase(enquiryRepo, notifier)
	settingsUC := usecase.NewSettingsUsecase(settingRepo)

	// handler
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Notification: handler.NewNotificationHandler(notificationUC),
		Enquiry:      handler.NewEnquiryHandler(enquiryUC),
		Settings:     handler.NewSettingsHandler(settingsUC),
	})

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	if cfg.GoEnv == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
