package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/emailjs"
	"github.com/Simplici0/ggr-quote/internal/pricing"
)

// Config holds application configuration sourced from config.yaml and environment variables.
type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string
	EmailJS   emailjs.Config
	PDFFont   string
	Packing   pricing.PackingRate

	v *viper.Viper
}

// Load reads .env, an optional config.yaml from ./configs or the working
// directory, and the environment.
func Load() (*Config, error) {
	return load(".env", "./configs", ".")
}

func load(dotenvPath string, configPaths ...string) (*Config, error) {
	// Best-effort: existing environment variables win over the file.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:      v.GetString("server.port"),
		DBPath:    v.GetString("database.path"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		EmailJS: emailjs.Config{
			ServiceID:  v.GetString("emailjs.service_id"),
			TemplateID: v.GetString("emailjs.template_id"),
			PublicKey:  v.GetString("emailjs.public_key"),
			PrivateKey: v.GetString("emailjs.private_key"),
			Endpoint:   v.GetString("emailjs.endpoint"),
		},
		PDFFont: v.GetString("pdf.font_path"),
		Packing: pricing.PackingRate{
			PricePerKg: v.GetFloat64("packing.price_per_kg"),
			BasePrice:  v.GetFloat64("packing.base_price"),
		},
		v: v,
	}

	for _, line := range catalog.Lines {
		mode := pricing.ServiceCostMode(cfg.v.GetString(policyKey(line, "service_cost_mode")))
		if mode != "" && mode != pricing.ServiceCostFlat && mode != pricing.ServiceCostGeometry {
			return nil, fmt.Errorf("invalid %s: %q", policyKey(line, "service_cost_mode"), mode)
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.path", "./ggr.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("emailjs.endpoint", emailjs.DefaultEndpoint)
	v.SetDefault("packing.price_per_kg", 400)
	v.SetDefault("packing.base_price", 2000)
}

func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("database.path", "DATABASE_PATH", "DB_PATH")
	_ = v.BindEnv("emailjs.service_id", "EMAILJS_SERVICE_ID")
	_ = v.BindEnv("emailjs.template_id", "EMAILJS_TEMPLATE_ID")
	_ = v.BindEnv("emailjs.public_key", "EMAILJS_PUBLIC_KEY")
	_ = v.BindEnv("emailjs.private_key", "EMAILJS_PRIVATE_KEY")
}

func policyKey(line catalog.Line, field string) string {
	return "policy." + string(line) + "." + field
}

// Policy returns the default policy of a product line with configured overrides applied.
func (c *Config) Policy(line catalog.Line) pricing.Policy {
	p := pricing.DefaultPolicy(line)
	p.Packing = c.Packing

	if c.v == nil {
		return p
	}
	if k := policyKey(line, "vat_rate"); c.v.IsSet(k) {
		p.VATRate = c.v.GetFloat64(k)
	}
	if k := policyKey(line, "include_packing"); c.v.IsSet(k) {
		p.IncludePackingCost = c.v.GetBool(k)
	}
	if k := policyKey(line, "include_shipping"); c.v.IsSet(k) {
		p.IncludeShippingCost = c.v.GetBool(k)
	}
	if k := policyKey(line, "service_cost_mode"); c.v.IsSet(k) {
		p.ServiceCostMode = pricing.ServiceCostMode(c.v.GetString(k))
	}
	if k := policyKey(line, "require_consent"); c.v.IsSet(k) {
		p.RequireConsent = c.v.GetBool(k)
	}
	return p
}

// Warnings lists configuration gaps that do not prevent startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
		out = append(out, "EmailJS is not configured; quote submission will be rejected")
	}
	return out
}
