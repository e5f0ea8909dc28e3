package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/atgs/landing/app"
	"github.com/atgs/landing/config"
	"github.com/atgs/landing/httputil"
	contactfeature "github.com/atgs/landing/internal/app/features/contact"
	"github.com/atgs/landing/internal/app/features/landing"
	"github.com/atgs/landing/internal/app/static"
	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/internal/domain/theme"
	"github.com/atgs/landing/metrics"
	"github.com/atgs/landing/middleware"
	"github.com/atgs/landing/pantry/assets"
	"github.com/atgs/landing/pantry/fileserver"
	"github.com/atgs/landing/pantry/health"
	"github.com/atgs/landing/pantry/pprof"
	"github.com/atgs/landing/pantry/ratelimit"
	"github.com/atgs/landing/pantry/urlutil"
	"github.com/atgs/landing/pantry/version"
	"github.com/atgs/landing/router"
	"go.uber.org/zap"
)

// limiterTTL is how long an idle client's bucket is kept.
const limiterTTL = 10 * time.Minute

// LoadConfig loads the core config and the site keys.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	core, vals, err := config.Load(logger, appKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}
	return core, appConfigFrom(vals), nil
}

// validateAppConfig reports every problem at once.
func validateAppConfig(cfg AppConfig) error {
	var problems []string
	if !contact.IsValidEmail(cfg.Recipient) {
		problems = append(problems, fmt.Sprintf("recipient %q is not a valid email address", cfg.Recipient))
	}
	if cfg.SupportEmail != "" && !contact.IsValidEmail(cfg.SupportEmail) {
		problems = append(problems, fmt.Sprintf("support_email %q is not a valid email address", cfg.SupportEmail))
	}
	if cfg.DemoImage != "" && !urlutil.IsAssetURL(cfg.DemoImage) {
		problems = append(problems, fmt.Sprintf("demo_image %q must be an http(s) URL or a path starting with /", cfg.DemoImage))
	}
	if cfg.SubmitRatePerMinute < 0 {
		problems = append(problems, "submit_rate_per_minute must be >= 0")
	}
	if cfg.SubmitBurst < 0 {
		problems = append(problems, "submit_burst must be >= 0")
	}
	if len(problems) > 0 {
		return errors.New("invalid app config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Prepare resolves the theme, fingerprints the static files and starts the
// rate limiter. The limiter's sweeper stops when ctx is done.
func Prepare(ctx context.Context, core *config.CoreConfig, cfg AppConfig, logger *zap.Logger) (Deps, error) {
	if err := validateAppConfig(cfg); err != nil {
		return Deps{}, err
	}

	th, err := theme.Resolve(cfg.ThemePreset, cfg.ThemeFile)
	if err != nil {
		return Deps{}, err
	}
	logger.Info("theme resolved",
		zap.String("preset", cfg.ThemePreset),
		zap.String("file", cfg.ThemeFile),
		zap.String("name", th.Name))

	deps := Deps{
		Theme:   th,
		Encoder: contact.Encoder{Recipient: cfg.Recipient, SiteName: cfg.SiteName},
		Assets:  assets.NewFingerprints(static.FS(), "/static", static.Names...),
	}

	if cfg.SubmitRatePerMinute > 0 {
		deps.Limiter = ratelimit.NewKeyLimiter(cfg.SubmitRatePerMinute, cfg.SubmitBurst, limiterTTL)
		go deps.Limiter.RunSweeper(ctx.Done())
		logger.Info("submission rate limit enabled",
			zap.Int("per_minute", cfg.SubmitRatePerMinute),
			zap.Int("burst", cfg.SubmitBurst))
	} else {
		logger.Warn("submission rate limit disabled")
	}
	return deps, nil
}

// BuildHandler mounts the operational endpoints, the static files and the
// two features on the shared router.
func BuildHandler(core *config.CoreConfig, cfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	httputil.SetLogger(logger)
	r := router.New(core, logger)

	staticFS := static.FS()
	health.Mount(r, map[string]health.Check{
		"static": func(context.Context) error {
			_, err := fs.Stat(staticFS, "site.css")
			return err
		},
	}, logger)
	version.Mount(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Handle("/static/*", fileserver.Handler("/static", staticFS, fileserver.Options{
		CacheControl: "public, max-age=31536000, immutable",
	}))

	demo := cfg.DemoImage
	if demo == "" {
		demo = deps.Assets.URL("demo.svg")
	}
	page := landing.New(landing.Site{
		Theme:        deps.Theme,
		SupportEmail: cfg.SupportEmail,
		SupportPhone: cfg.SupportPhone,
		ShowPricing:  cfg.ShowPricing,
		EnableEML:    cfg.EnableEML,
		Stylesheet:   deps.Assets.URL("site.css"),
		Icon:         deps.Assets.URL("logo.svg"),
		DemoImage:    demo,
	}, logger)

	var submit, apiSubmit func(http.Handler) http.Handler
	if deps.Limiter != nil {
		submit = ratelimit.Middleware(deps.Limiter, page.TooManyRequests)
		apiSubmit = ratelimit.Middleware(deps.Limiter, contactfeature.TooManyRequests)
	}

	landing.MountRoutes(r, page, submit)
	contactfeature.MountRoutes(r,
		contactfeature.New(page, deps.Encoder, cfg.EnableEML, logger),
		submit, apiSubmit, middleware.CORSFromConfig(core))

	if core.Env == "dev" {
		pprof.Mount(r)
		logger.Info("pprof mounted at /debug/pprof")
	}
	return r, nil
}

// Hooks wires the site into app.Run.
var Hooks = app.Hooks[AppConfig, Deps]{
	Name:         "landing",
	LoadConfig:   LoadConfig,
	Prepare:      Prepare,
	BuildHandler: BuildHandler,
}
