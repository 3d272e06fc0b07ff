package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Warsaw", cfg.App.TimeZone)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.False(t, cfg.Notify.NotifyOnReject)
	assert.True(t, cfg.Seed.Services)
	assert.Equal(t, 50051, cfg.GRPC.Port)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "file::memory:")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("NOTIFY_ON_REJECT", "true")
	t.Setenv("BOOKING_EMAIL", "ops@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SMS_ACCOUNT_SID", "AC1")
	t.Setenv("SMS_AUTH_TOKEN", "tok")
	t.Setenv("SMS_FROM", "+48100200300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN())
	assert.Equal(t, 3*time.Second, cfg.Notify.Timeout)
	assert.True(t, cfg.Notify.NotifyOnReject)
	assert.Equal(t, "ops@example.com", cfg.Notify.BookingEmail)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.SMS.Enabled())
	assert.False(t, cfg.Mail.SMTPEnabled())
}

func TestLoad_DatabaseURLOverridesDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver": {"DB_DRIVER", "mysql"},
		"bad timezone":   {"APP_TIMEZONE", "Mars/Olympus"},
		"zero timeout":   {"NOTIFY_TIMEOUT", "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_PostgresDSN(t *testing.T) {
	c := DBConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     5432,
		User:     "u",
		Password: "p",
		Name:     "n",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
