package bootstrap

import (
	"github.com/atgs/landing/config"
	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/internal/domain/theme"
)

// AppConfig holds the site settings, loaded alongside the core config.
type AppConfig struct {
	Recipient    string // where contact drafts are addressed
	SupportEmail string
	SupportPhone string
	SiteName     string // subject fallback; the theme name is used for display

	ThemePreset string
	ThemeFile   string // optional YAML overriding preset fields

	ShowPricing bool
	DemoImage   string // URL; "" uses the embedded demo.svg
	EnableEML   bool

	SubmitRatePerMinute int // 0 disables rate limiting
	SubmitBurst         int
}

// appKeys declares every AppConfig field for config.Load. Each is settable
// as --name, LANDING_NAME or name: in the config file.
var appKeys = []config.AppKey{
	{Name: "recipient", Default: "theodora@atgs.co.uk", Desc: "Address contact drafts are addressed to"},
	{Name: "support_email", Default: "support@atgs.co.uk", Desc: "Support email shown in the contact section"},
	{Name: "support_phone", Default: "+1 (555) 123‑4567", Desc: "Support phone shown in the contact section"},
	{Name: "site_name", Default: contact.DefaultSiteName, Desc: "Subject fallback for contact drafts"},
	{Name: "theme_preset", Default: theme.DefaultPreset, Desc: "Theme preset: atgs, minimal-mono, sunset-pop, calm-teal"},
	{Name: "theme_file", Default: "", Desc: "YAML file overriding theme fields"},
	{Name: "show_pricing", Default: false, Desc: "Render the pricing section"},
	{Name: "demo_image", Default: "", Desc: "Hero demo image URL (default: embedded demo.svg)"},
	{Name: "enable_eml", Default: true, Desc: "Offer the contact draft as a downloadable .eml file"},
	{Name: "submit_rate_per_minute", Default: 20, Desc: "Form submissions per minute per client IP (0 disables)"},
	{Name: "submit_burst", Default: 5, Desc: "Submission burst per client IP"},
}

func appConfigFrom(v config.AppConfigValues) AppConfig {
	return AppConfig{
		Recipient:           v.String("recipient"),
		SupportEmail:        v.String("support_email"),
		SupportPhone:        v.String("support_phone"),
		SiteName:            v.String("site_name"),
		ThemePreset:         v.String("theme_preset"),
		ThemeFile:           v.String("theme_file"),
		ShowPricing:         v.Bool("show_pricing"),
		DemoImage:           v.String("demo_image"),
		EnableEML:           v.Bool("enable_eml"),
		SubmitRatePerMinute: v.Int("submit_rate_per_minute"),
		SubmitBurst:         v.Int("submit_burst"),
	}
}
