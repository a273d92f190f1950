package app

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/config"
	httpx "github.com/EthanNaitwe/KampalaGrocery/internal/http"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/handlers"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/middleware"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/notifications"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage/memory"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage/sheets"
	"github.com/EthanNaitwe/KampalaGrocery/internal/services"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	notificationSvc := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)

	// The in-memory store always exists: it is either the fallback
	// behind the spreadsheet or, without credentials, the whole store.
	memStore := memory.NewStore(memory.WithSeedData())
	store := buildStore(cfg, memStore)

	authSvc := services.NewAuthService(store, notificationSvc, services.AuthConfig{
		OTPLength:  cfg.OTPLength,
		OTPTTL:     cfg.OTPTTL,
		SessionTTL: cfg.SessionTTL,
	})
	cartSvc := services.NewCartService(store)
	orderSvc := services.NewOrderService(store)

	authH := handlers.NewAuthHandlers(authSvc, cfg.SessionTTL)
	catalogH := handlers.NewCatalogHandlers(store)
	cartH := handlers.NewCartHandlers(cartSvc)
	orderH := handlers.NewOrderHandlers(orderSvc)

	r := httpx.BuildRouter(authH, catalogH, cartH, orderH, middleware.SessionAuth(authSvc), cfg.CORSOrigins)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, r)
}

func buildStore(cfg *config.Config, memStore *memory.Store) domain.Store {
	if cfg.SpreadsheetID == "" {
		logger.Warn().Msg("no spreadsheet configured, using in-memory storage only")
		return memStore
	}

	ctx := context.Background()
	var creds []byte
	if cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			logger.Warn().Err(err).Msg("could not read sheets credentials, using in-memory storage only")
			return memStore
		}
		creds = b
	}

	api, err := sheets.NewRowAPI(ctx, cfg.SpreadsheetID, creds)
	if err != nil {
		logger.Warn().Err(err).Msg("sheets client init failed, using in-memory storage only")
		return memStore
	}

	sheetStore := sheets.NewStore(api)
	if err := sheetStore.Init(ctx); err != nil {
		// Keep the spreadsheet as primary anyway: per-call failover
		// covers transient startup errors.
		logger.Warn().Err(err).Msg("sheets bootstrap failed, requests will fail over per call")
	}
	return storage.NewFallback(sheetStore, memStore)
}
