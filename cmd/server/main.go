package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"okcoinweb/internal/api"
	"okcoinweb/internal/config"
	"okcoinweb/internal/exchange"
	"okcoinweb/internal/service"
	"okcoinweb/pkg/crypto"
	"okcoinweb/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		utils.Error("failed to load config", utils.Err(err))
		os.Exit(1)
	}

	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer func() { _ = logger.Sync() }()

	// Пароль веб-аккаунта хранится зашифрованным
	password, err := crypto.DecryptSecret(cfg.Exchange.PasswordEncrypted, cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal("failed to decrypt OKCOIN_PASSWORD", utils.Err(err))
	}

	httpCfg := exchange.DefaultHTTPClientConfig()
	httpCfg.TotalTimeout = cfg.Client.HTTPTimeout

	source, err := exchange.NewIcebergSource(cfg.Exchange.Site, exchange.WebConfig{
		BaseURL:           cfg.Exchange.BaseURL,
		LoginName:         cfg.Exchange.LoginName,
		Password:          password,
		HTTP:              httpCfg,
		RequestsPerSecond: cfg.Client.RequestsPerSecond,
		RequestBurst:      cfg.Client.RequestBurst,
		MaxRetries:        cfg.Client.MaxRetries,
		RetryBackoff:      cfg.Client.RetryBackoff,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create exchange client", utils.Err(err))
	}

	// Первый вход не обязателен: клиент залогинится при первом запросе
	loginCtx, cancelLogin := context.WithTimeout(context.Background(), cfg.Client.HTTPTimeout)
	if err := source.Login(loginCtx); err != nil {
		logger.Warn("initial login failed, will retry on demand", utils.Err(err))
	}
	cancelLogin()

	icebergService := service.NewIcebergService(source, cfg.Client.MaxPages, logger)

	router := api.SetupRoutes(&api.Dependencies{
		IcebergService: icebergService,
		Logger:         logger,
		APITokenHash:   cfg.Security.APITokenHash,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})
	if cfg.Security.APITokenHash == "" {
		logger.Warn("API_TOKEN_HASH is empty, API is served without authentication")
	}

	// GetAll обходит до MAX_PAGES страниц, поэтому WriteTimeout с запасом
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Client.MaxPages+1) * cfg.Client.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server",
			utils.String("addr", server.Addr),
			utils.Exchange(source.GetName()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", utils.Err(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", utils.Err(err))
	}

	if err := source.Close(); err != nil {
		logger.Error("error closing exchange client", utils.Err(err))
	}

	logger.Info("server exited")
}
