package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret    string
	JWTTTLMins   int
	IdempTTLSecs int

	// StrictTransitions gates the status state machine; set to "false" only
	// when approvers need free-form manual overrides.
	StrictTransitions bool

	// requests per minute (memory-store rate limiter)
	APIRatePerMin   int
	LoginRatePerMin int

	// bootstrap approver account, created at startup when set
	SeedApproverName  string
	SeedApproverEmail string
	SeedApproverPass  string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "cardapp"),
		MySQLUser: getenv("MYSQL_USER", "cardapp"),
		MySQLPass: getenv("MYSQL_PASS", "cardapp"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		JWTSecret:    getenv("JWT_SECRET", ""),
		JWTTTLMins:   getint("JWT_TTL_MINUTES", 120),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		StrictTransitions: getbool("STRICT_TRANSITIONS", true),

		APIRatePerMin:   getint("API_RATE_PER_MIN", 100),
		LoginRatePerMin: getint("LOGIN_RATE_PER_MIN", 5),

		SeedApproverName:  getenv("SEED_APPROVER_NAME", "Default Approver"),
		SeedApproverEmail: getenv("SEED_APPROVER_EMAIL", ""),
		SeedApproverPass:  getenv("SEED_APPROVER_PASS", ""),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
