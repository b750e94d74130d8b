package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all environment-driven settings for the daemon.
type Config struct {
	HTTPPort      string
	WatchDir      string
	WatchExts     []string
	EnableWatcher bool
	JournalPath   string
	JournalLimit  int
	WebhookURL    string
	ConfigPath    string
}

// fileConfig is the optional YAML overlay; non-zero fields win over env.
type fileConfig struct {
	WatchDir    string   `yaml:"watch_dir"`
	WatchExts   []string `yaml:"watch_exts"`
	JournalPath string   `yaml:"journal_path"`
	WebhookURL  string   `yaml:"webhook_url"`
}

// Load reads configuration from environment, optional .env file, and an
// optional YAML config file named by SIGNALBUS_CONFIG.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:      getenv("PORT", "8080"),
		WatchDir:      getenv("WATCH_DIR", "./watch"),
		WatchExts:     splitList(getenv("WATCH_EXTS", ".json,.txt,.log")),
		EnableWatcher: getenvBool("ENABLE_WATCHER", true),
		JournalPath:   getenv("JOURNAL_PATH", "./signalbus.db"),
		JournalLimit:  clampInt(getenvInt("JOURNAL_LIMIT", 100), 1, 1000),
		WebhookURL:    getenv("WEBHOOK_URL", ""),
		ConfigPath:    getenv("SIGNALBUS_CONFIG", ""),
	}
	if cfg.ConfigPath != "" {
		if err := applyFile(&cfg, cfg.ConfigPath); err != nil {
			log.Printf("config: overlay %s: %v", cfg.ConfigPath, err)
		}
	}

	log.Printf("config: watch_dir=%s journal=%s port=%s", cfg.WatchDir, cfg.JournalPath, cfg.HTTPPort)
	return cfg
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}
	if fc.WatchDir != "" {
		cfg.WatchDir = fc.WatchDir
	}
	if len(fc.WatchExts) > 0 {
		cfg.WatchExts = fc.WatchExts
	}
	if fc.JournalPath != "" {
		cfg.JournalPath = fc.JournalPath
	}
	if fc.WebhookURL != "" {
		cfg.WebhookURL = fc.WebhookURL
	}
	return nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Now returns the current time; indirection point for tests.
var Now = func() time.Time { return time.Now().UTC() }
