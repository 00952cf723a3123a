// Package app wires configuration into a running service: storage,
// cache, the ORCID client, services, controllers and the router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	"github.com/dropDatabas3/orcidgate/internal/config"
	"github.com/dropDatabas3/orcidgate/internal/email"
	adminctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/admin"
	healthctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/health"
	loginctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/login"
	sessionctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/session"
	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	mw "github.com/dropDatabas3/orcidgate/internal/http/middlewares"
	"github.com/dropDatabas3/orcidgate/internal/http/server"
	healthsvc "github.com/dropDatabas3/orcidgate/internal/http/services/health"
	login "github.com/dropDatabas3/orcidgate/internal/http/services/login"
	sessionsvc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/oauth/orcid"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/rate"
	"github.com/dropDatabas3/orcidgate/internal/store"
	memstore "github.com/dropDatabas3/orcidgate/internal/store/memory"
	"github.com/dropDatabas3/orcidgate/internal/store/pg"
	"github.com/dropDatabas3/orcidgate/internal/util"
	migrations "github.com/dropDatabas3/orcidgate/migrations/postgres"
)

// App is the wired application. Close releases its resources in
// reverse construction order.
type App struct {
	Handler http.Handler

	cleanup []func()
}

// Close releases everything Build opened.
func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

func (a *App) onClose(fn func()) {
	a.cleanup = append(a.cleanup, fn)
}

// Build wires the application from configuration. The context bounds
// startup work only (connecting, migrating), not the serving lifetime.
func (a *App) build(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("app")

	// 1. Storage.
	var (
		st     store.Store
		dbPool func() *pgxpool.Pool
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pgStore, err := pg.Connect(ctx, pg.Config{
			DSN:             cfg.Storage.DSN,
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime),
		})
		if err != nil {
			return fmt.Errorf("app: connect postgres: %w", err)
		}
		a.onClose(func() { _ = pgStore.Close() })

		res, err := pg.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, pgStore)
		if err != nil {
			return fmt.Errorf("app: migrate: %w", err)
		}
		log.Info("storage ready",
			logger.String("driver", "postgres"),
			logger.Int("migrations_applied", len(res.Applied)),
		)
		st = pgStore
		dbPool = pgStore.Pool
	default:
		st = memstore.New()
		log.Info("storage ready", logger.String("driver", "memory"))
	}

	// 2. Cache.
	cacheClient, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Dur(cfg.Cache.Memory.DefaultTTL),
	})
	if err != nil {
		return fmt.Errorf("app: cache: %w", err)
	}
	a.onClose(func() { _ = cacheClient.Close() })
	log.Info("cache ready", logger.String("kind", cfg.Cache.Kind))

	// 3. Sessions.
	sessions := sessionsvc.NewService(cacheClient, config.Dur(cfg.Session.TTL))

	// 4. State signer. Always built; an empty seed means a volatile key.
	signer, err := login.NewStateSigner(cfg.State.SigningKey, config.Dur(cfg.State.TTL))
	if err != nil {
		return fmt.Errorf("app: state signer: %w", err)
	}
	if cfg.State.SigningKey == "" {
		log.Warn("state signing key not configured, using a volatile key")
	}

	// 5. ORCID client.
	redirectURL := cfg.ORCID.RedirectURL
	if redirectURL == "" && cfg.App.BaseURL != "" {
		redirectURL = strings.TrimRight(cfg.App.BaseURL, "/") + loginctrl.CallbackPath
	}
	orcidClient := orcid.New(orcid.Config{
		ClientID:     cfg.ORCID.ClientID,
		ClientSecret: cfg.ORCID.ClientSecret,
		RedirectURL:  redirectURL,
		AuthorizeURL: cfg.ORCID.AuthorizeURL,
		TokenURL:     cfg.ORCID.TokenURL,
		Scope:        cfg.ORCID.Scope,
		Timeout:      config.Dur(cfg.ORCID.Timeout),
	})

	// 6. First-sign-in notifier.
	var notifier login.Notifier
	if cfg.Notify.SignInEmail {
		sender := &email.SMTPSender{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			From:               cfg.SMTP.From,
			User:               cfg.SMTP.Username,
			Pass:               cfg.SMTP.Password,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		}
		notifier = email.NewSignInNotifier(sender, cfg.Notify.To, cfg.App.Name)
		log.Info("sign-in notifications enabled", logger.String("to", util.MaskEmail(cfg.Notify.To)))
	}

	// 7. Login services.
	loginServices := login.NewServices(login.Deps{
		ORCID:        orcidClient,
		Store:        st,
		Sessions:     sessions,
		Signer:       signer,
		Notifier:     notifier,
		RequireState: cfg.State.Required,
		AppRoot:      cfg.App.FrontendURL,
	})

	// 8. Controllers.
	cookies := dto.CookieConfig{
		Name:     cfg.Session.CookieName,
		TTL:      config.Dur(cfg.Session.TTL),
		Domain:   cfg.Session.Domain,
		SameSite: cfg.Session.SameSite,
		Secure:   cfg.Session.Secure,
	}
	loginControllers := loginctrl.NewControllers(loginServices, cookies, cfg.App.Name)
	sessionControllers := sessionctrl.NewControllers(sessions, cookies)
	healthController := healthctrl.NewHealthController(healthsvc.NewHealthService(healthsvc.Deps{
		StoreCheck:      st.Ping,
		CacheCheck:      cacheClient.Ping,
		Signer:          signer,
		StateRequired:   cfg.State.Required,
		SMTPConfigured:  cfg.Notify.SignInEmail && cfg.SMTP.Host != "",
		ORCIDConfigured: cfg.ORCID.ClientID != "" && cfg.ORCID.ClientSecret != "",
	}))
	adminControllers := adminctrl.NewControllers(st, cacheClient, sessions)

	// 9. Rate limiting. Redis-backed; Validate already tied rate.enabled
	// to the redis cache.
	var rateLimit *mw.RateLimitConfig
	if cfg.Rate.Enabled && strings.EqualFold(cfg.Cache.Kind, "redis") {
		rc := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		a.onClose(func() { _ = rc.Close() })
		limiter := rate.NewRedisLimiter(rc,
			cfg.Cache.Redis.Prefix+"rl:",
			cfg.Rate.Login.Limit,
			config.Dur(cfg.Rate.Login.Window),
		)
		rateLimit = &mw.RateLimitConfig{Limiter: limiter, KeyFunc: mw.IPOnlyRateKey}
		log.Info("rate limiting enabled",
			logger.Int("limit", cfg.Rate.Login.Limit),
			logger.String("window", cfg.Rate.Login.Window),
		)
	}

	// 10. Metrics and router.
	metricsHandler, err := server.RegisterMetrics(server.MetricsConfig{DBPool: dbPool})
	if err != nil {
		return fmt.Errorf("app: metrics: %w", err)
	}
	a.Handler = server.NewRouter(server.RouterDeps{
		Login:          loginControllers,
		Session:        sessionControllers,
		Health:         healthController,
		Admin:          adminControllers,
		Metrics:        metricsHandler,
		RateLimit:      rateLimit,
		AdminTokenHash: cfg.Admin.TokenHash,
	})
	return nil
}

// Build wires an App from configuration. Callers own Close.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}
	if err := a.build(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Run builds the application and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	loggerEnv := "prod"
	if strings.EqualFold(cfg.Log.Format, "console") {
		loggerEnv = "dev"
	}
	logger.Init(logger.Config{
		Env:         loggerEnv,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
	})
	defer logger.Sync()

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  config.Dur(cfg.Server.ReadTimeout),
		WriteTimeout: config.Dur(cfg.Server.WriteTimeout),
	}, app.Handler)
	return srv.Run(ctx)
}
