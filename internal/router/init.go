package router

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/container"
	pginfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/oauth"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/router/modules"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// Services is everything the HTTP modules need
type Services struct {
	Users  *application.UserService
	Admin  *application.AdminService
	OAuth  *application.OAuthService
	Reset  *application.PasswordResetService
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Checks map[string]modules.Check

	CookieDomain         string
	CookieSecure         bool
	OAuthSuccessRedirect string
	DebugMetrics         bool
}

// BuildServices assembles the services from the container singletons.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	pool := container.GetPGPool()

	repo := pginfra.NewUserRepository(pool)
	users := application.NewUserService(repo, helpers.NewBcryptHasher(cfg.BcryptCost), logger)

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	reset := application.NewPasswordResetService(users, redisstore.NewOTPStore(rdb), pub, cfg.PasswordResetOTPTTL, logger)

	oauthSvc := application.NewOAuthService(repo, redisstore.NewStateStore(rdb), oauth.NewCodeVerifier, logger, container.GetIdentityProviders()...)
	oauthSvc.StateTTL = cfg.OAuthStateTTL

	return Services{
		Users:  users,
		Admin:  application.NewAdminService(repo, logger),
		OAuth:  oauthSvc,
		Reset:  reset,
		JWT:    container.GetJWT(),
		Logger: logger,
		Checks: map[string]modules.Check{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CookieDomain:         cfg.CookieDomain,
		CookieSecure:         cfg.CookieSecure,
		OAuthSuccessRedirect: cfg.OAuthSuccessRedirectURL,
		DebugMetrics:         cfg.DebugMetricsEnabled,
	}
}

// RegisterModules builds the handlers for s and adds their modules to r.
func RegisterModules(r *Registry, s Services) {
	tokens := handlers.NewTokenIssuer(s.JWT, s.CookieDomain, s.CookieSecure)

	r.Add(modules.NewHealthModule(s.Checks, s.DebugMetrics))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(s.Users, tokens, s.Logger), s.JWT, s.Users.Repo))
	r.Add(modules.NewPasswordModule(handlers.NewPasswordHandler(s.Reset, s.Logger)))
	r.Add(modules.NewOAuthModule(handlers.NewOAuthHandler(s.OAuth, tokens, s.OAuthSuccessRedirect, s.Logger)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(s.Admin, s.Users, s.Logger), s.JWT, s.Users.Repo))
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	RegisterModules(r, BuildServices())
}
