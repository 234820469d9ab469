package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres or sqlite
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the connection string for the configured driver. Postgres
// URLs are rewritten to key/value form.
func (d DatabaseConfig) DSN() (string, error) {
	switch strings.ToLower(d.Driver) {
	case "sqlite":
		if d.URL == "" {
			return "blogicum.db", nil
		}
		return d.URL, nil
	case "postgres", "":
		if strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://") {
			dsn, err := pq.ParseURL(d.URL)
			if err != nil {
				return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
			}
			return dsn, nil
		}
		if d.URL != "" {
			return d.URL, nil
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
}

func OpenDatabase(cfg DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	if strings.EqualFold(cfg.Driver, "sqlite") {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		log.Error("Failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected", "driver", cfg.Driver)
	return db, nil
}

// GormConfig is shared by the server and tests so timestamps are always
// stored in UTC.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             1 * time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
