package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
	"github.com/joho/godotenv"
)

// loadEnvFile makes variables from a dotenv file visible to os.Getenv.
// The file named by -env-file must exist; the implicit ./.env is optional.
// Variables already present in the process environment win.
func loadEnvFile() {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	_ = godotenv.Load()
}

// parseEnv overlays values from environment variables.
//
// Recognized variables:
//
//	HTTP_ADDR, PORT           REST bind address (PORT yields ":<port>")
//	GRPC_HEALTH_ADDR          gRPC health bind address
//	DATABASE_DSN              PostgreSQL DSN
//	JWT_SECRET                token signing secret
//	JWT_EXPIRES_IN            token lifetime ("7d", "12h")
//	MAX_LOGIN_ATTEMPTS        failures before lockout
//	LOCK_DURATION             lockout window
//	REQUEST_TIMEOUT           per-request deadline
//	ADMIN_EMAIL, ADMIN_PASSWORD
//	BLOB_BACKEND              "db" or "s3"
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, MAIL_FROM
//	LOG_LEVEL, APP_ENV
//
// Malformed numeric or duration values panic.
func parseEnv(config *Config) {
	loadEnvFile()

	if v := os.Getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_HEALTH_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envDuration(&config.TokenValidityDuration, "JWT_EXPIRES_IN")
	envInt(&config.MaxLoginAttempts, "MAX_LOGIN_ATTEMPTS")
	envDuration(&config.LockDuration, "LOCK_DURATION")
	envDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
	envString(&config.AdminEmail, "ADMIN_EMAIL")
	envString(&config.AdminPassword, "ADMIN_PASSWORD")
	envString(&config.BlobBackend, "BLOB_BACKEND")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.SMTPHost, "SMTP_HOST")
	envInt(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASS")
	envString(&config.MailFrom, "MAIL_FROM")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.Environment, "APP_ENV")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
