package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = 3318
	DefaultMaxAttempts      = 5
	DefaultSweepSchedule    = "@hourly"
	DefaultSweepMaxAgeHours = 24
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	CatalogPath      string
	CatalogLanguages []string
	MaxAttempts      int
	SweepSchedule    string
	SweepMaxAgeHours int
	VerifyVoteCards  bool

	// Command is the subcommand to run (default "serve") and CommandArgs
	// are the arguments following it
	Command     string
	CommandArgs []string
}

// ParseFlags reads CLI flags, then fills unset values from the environment.
// A .env file (or the one named by -env-file) is loaded first; it never
// overrides variables already set in the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, languages string
	var verify bool

	fs := flag.NewFlagSet("card-matchup", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Catalog
	fs.StringVar(&cfg.CatalogPath, "catalog", "", "Path to the MTGJSON SQLite database")
	fs.StringVar(&languages, "languages", "", "Comma-separated language allow-list")

	// Matchups and retention
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", 0, "Sampling attempts per matchup")
	fs.StringVar(&cfg.SweepSchedule, "sweep-schedule", "", "Cron schedule for the retention sweep")
	fs.IntVar(&cfg.SweepMaxAgeHours, "sweep-hours", 0, "Age in hours after which unvoted matchups are swept")
	fs.BoolVar(&verify, "verify-cards", false, "Check both cards exist in the catalog before accepting a vote")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.CatalogPath == "" {
		cfg.CatalogPath = os.Getenv("CATALOG_PATH")
	}
	if cfg.CatalogPath == "" {
		return Config{}, errors.New("catalog path required (use -catalog or CATALOG_PATH env)")
	}

	if languages == "" {
		languages = os.Getenv("CATALOG_LANGUAGES")
	}
	cfg.CatalogLanguages = splitList(languages)

	if cfg.MaxAttempts == 0 {
		n, err := envInt("MATCHUP_MAX_ATTEMPTS", DefaultMaxAttempts)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxAttempts = n
	}
	if cfg.MaxAttempts < 1 {
		return Config{}, errors.New("max attempts must be at least 1")
	}

	// An explicitly empty SWEEP_SCHEDULE disables the scheduled sweep
	if cfg.SweepSchedule == "" {
		if schedule, ok := os.LookupEnv("SWEEP_SCHEDULE"); ok {
			cfg.SweepSchedule = schedule
		} else {
			cfg.SweepSchedule = DefaultSweepSchedule
		}
	}

	if cfg.SweepMaxAgeHours == 0 {
		n, err := envInt("SWEEP_MAX_AGE_HOURS", DefaultSweepMaxAgeHours)
		if err != nil {
			return Config{}, err
		}
		cfg.SweepMaxAgeHours = n
	}
	if cfg.SweepMaxAgeHours < 1 {
		return Config{}, errors.New("sweep hours must be at least 1")
	}

	cfg.VerifyVoteCards = verify
	if !verify {
		if v := os.Getenv("VERIFY_VOTE_CARDS"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid VERIFY_VOTE_CARDS env variable")
			}
			cfg.VerifyVoteCards = b
		}
	}

	cfg.Command = "serve"
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.CommandArgs = rest[1:]
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
