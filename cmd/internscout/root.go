package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"internscout/internal/classify"
	"internscout/internal/config"
	"internscout/internal/model"
	"internscout/internal/notifier"
	"internscout/internal/ratelimit"
	"internscout/internal/recency"
	"internscout/internal/retry"
	"internscout/internal/scraper"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "internscout",
	Short: "Internship radar — find fresh listings across job boards",
	Long:  "Internscout scrapes internship boards, keeps only fresh listings that match your target roles, and alerts you to ones it has never seen before.",
	// Default to `start` so that `internscout` with no args runs the daemon.
	// This preserves compatibility with systemd unit files that invoke the binary directly.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INTERNSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > INTERNSCOUT_CONFIG env var > "./config.yaml"
// A .env file in the working directory is loaded first so that ${VAR}
// references in the config can resolve SMTP credentials and DSNs.
func loadConfig(path string) (*config.Config, error) {
	_ = godotenv.Load()

	if path == "" {
		if env := os.Getenv("INTERNSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "email":
		logger.Info("using email notifier", "to", cfg.Notification.Email.To)
		return notifier.NewEmailNotifier(cfg.Notification.Email, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func buildClassifier(cfg *config.Config) *classify.Classifier {
	specs := make([]classify.RoleSpec, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		specs = append(specs, classify.NewRoleSpec(r.Name, r.Synonyms...))
	}
	return classify.NewClassifier(specs)
}

func buildRecencyFilter(cfg *config.Config) recency.Filter {
	return recency.Filter{
		MaxAge:  cfg.MaxAge,
		Unknown: recency.UnknownPolicy(cfg.UnknownRecency),
	}
}

func roleNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		names = append(names, r.Name)
	}
	return names
}

func newScrapeClient(cfg *config.Config) *scraper.Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	return scraper.NewClient(httpClient, limiter)
}

func createScraper(name string, client *scraper.Client, cfg *config.Config, logger *slog.Logger) (model.SourceScraper, bool) {
	roles := roleNames(cfg)
	switch name {
	case "intern-list":
		return scraper.NewInternList(client, roles), true
	case "linkedin":
		return scraper.NewLinkedIn(client, roles, cfg.Location), true
	case "simplyhired":
		return scraper.NewSimplyHired(client, roles, cfg.Location), true
	case "wayup":
		return scraper.NewWayUp(client, roles, cfg.Location), true
	case "indeed":
		return scraper.NewIndeed(client, roles, cfg.Location), true
	case "glassdoor":
		return scraper.NewGlassdoor(client, roles), true
	default:
		logger.Warn("unsupported scraper, skipping", "name", name)
		return nil, false
	}
}

func buildScrapers(cfg *config.Config, client *scraper.Client, logger *slog.Logger) []model.SourceScraper {
	var scrapers []model.SourceScraper
	for _, name := range cfg.Scrapers {
		s, ok := createScraper(name, client, cfg, logger)
		if !ok {
			continue
		}

		s = retry.NewRetryScraper(s, 2, 5*time.Second, logger)
		scrapers = append(scrapers, s)
		logger.Info("registered scraper", "source", s.Name())
	}
	return scrapers
}
