package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"INVOIS_APP_NAME":          os.Getenv("INVOIS_APP_NAME"),
		"INVOIS_APP_ENV":           os.Getenv("INVOIS_APP_ENV"),
		"INVOIS_APP_PORT":          os.Getenv("INVOIS_APP_PORT"),
		"INVOIS_DATABASE_HOST":     os.Getenv("INVOIS_DATABASE_HOST"),
		"INVOIS_DATABASE_PORT":     os.Getenv("INVOIS_DATABASE_PORT"),
		"INVOIS_DATABASE_USER":     os.Getenv("INVOIS_DATABASE_USER"),
		"INVOIS_DATABASE_PASSWORD": os.Getenv("INVOIS_DATABASE_PASSWORD"),
		"INVOIS_DATABASE_DBNAME":   os.Getenv("INVOIS_DATABASE_DBNAME"),
		"INVOIS_DATABASE_SSLMODE":  os.Getenv("INVOIS_DATABASE_SSLMODE"),
		"INVOIS_JWT_SECRET":        os.Getenv("INVOIS_JWT_SECRET"),
		"INVOIS_MAIL_HOST":         os.Getenv("INVOIS_MAIL_HOST"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invois-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "invois", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, "0 1 * * *", cfg.Scheduler.OverdueCronSchedule)
		assert.Equal(t, 30*24*time.Hour, cfg.Scheduler.TrashRetention)
		assert.Equal(t, 587, cfg.Mail.Port)
	})

	t.Run("environment variables with INVOIS prefix override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOIS_APP_NAME", "test-app")
		os.Setenv("INVOIS_APP_PORT", "9000")
		os.Setenv("INVOIS_DATABASE_HOST", "testdb.local")
		os.Setenv("INVOIS_DATABASE_PORT", "5433")
		os.Setenv("INVOIS_DATABASE_PASSWORD", "rahasia")
		os.Setenv("INVOIS_MAIL_HOST", "smtp.mailgun.org")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "rahasia", cfg.Database.Password)
		assert.Equal(t, "smtp.mailgun.org", cfg.Mail.Host)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOIS_APP_ENV", "production")
		os.Setenv("INVOIS_DATABASE_PASSWORD", "rahasia")
		os.Setenv("INVOIS_DATABASE_SSLMODE", "require")
		os.Setenv("INVOIS_JWT_SECRET", "short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production accepts a complete configuration", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOIS_APP_ENV", "production")
		os.Setenv("INVOIS_DATABASE_PASSWORD", "rahasia")
		os.Setenv("INVOIS_DATABASE_SSLMODE", "require")
		os.Setenv("INVOIS_JWT_SECRET", "a-very-long-secret-of-more-than-32-chars")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "invois",
		Password: "p@ss/word",
		DBName:   "invois",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in the password are escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
