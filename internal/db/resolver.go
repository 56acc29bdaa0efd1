package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL flag conventions (-h, -p, -U).
//
// Password is NOT a flag. Use $SPARKIFY_DB_PASSWORD, $PGPASSWORD, ~/.pgpass
// or a connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	SSLMode  string
}

// IsEmpty returns true if no granular connection flag was provided.
func (g *GranularConnFlags) IsEmpty() bool {
	return g == nil || (g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == "")
}

// CloudFlags select a cloud IAM authentication method.
// The Azure client secret is only read from $AZURE_CLIENT_SECRET.
type CloudFlags struct {
	AWS            bool
	AWSRegion      string
	Google         bool
	GoogleInstance string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
}

func (c *CloudFlags) count() int {
	n := 0
	for _, set := range []bool{c.AWS, c.Google, c.Azure} {
		if set {
			n++
		}
	}
	return n
}

// EnvVars holds the environment consulted during resolution.
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGSSLMODE    string
	DATABASE_URL string

	// SPARKIFY_DB_* take precedence over PG*. They also accept the names
	// UDACITY_DATA_ENGINEER_POSTGRES_INSTANCE/_USER/_PASSWORD.
	SPARKIFY_DB_HOST     string
	SPARKIFY_DB_USER     string
	SPARKIFY_DB_PASSWORD string

	AWS_REGION          string
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:               os.Getenv("PGHOST"),
		PGPORT:               os.Getenv("PGPORT"),
		PGUSER:               os.Getenv("PGUSER"),
		PGPASSWORD:           os.Getenv("PGPASSWORD"),
		PGSSLMODE:            os.Getenv("PGSSLMODE"),
		DATABASE_URL:         os.Getenv("DATABASE_URL"),
		SPARKIFY_DB_HOST:     firstEnv("SPARKIFY_DB_HOST", "UDACITY_DATA_ENGINEER_POSTGRES_INSTANCE"),
		SPARKIFY_DB_USER:     firstEnv("SPARKIFY_DB_USER", "UDACITY_DATA_ENGINEER_POSTGRES_USER"),
		SPARKIFY_DB_PASSWORD: firstEnv("SPARKIFY_DB_PASSWORD", "UDACITY_DATA_ENGINEER_POSTGRES_PASSWORD"),
		AWS_REGION:           os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:      os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:      os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:  os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ResolveConnectionParams resolves the connection to the analytics database.
//
// Precedence:
//  1. --connection flag, or $DATABASE_URL when no granular flag is set
//  2. Granular flags (-h, -p, -U, --sslmode)
//  3. $SPARKIFY_DB_*, then PG* environment variables
//  4. sparkify.yaml
//  5. Defaults (localhost:5432, sslmode=prefer)
//
// The database is always sparkify.DatabaseName, whatever a connection string names.
// Providing both --connection and granular flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sparkify.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot specify both --connection and granular flags (-h, -p, -U, --sslmode)\n"+
			"Choose one approach:\n"+
			"  1. Connection string: --connection \"postgresql://student@localhost:5432/sparkifydb\"\n"+
			"  2. Granular flags: -h localhost -p 5432 -U student\n"+
			"  3. Environment variables: export SPARKIFY_DB_HOST=localhost SPARKIFY_DB_USER=student", sparkify.ErrInvalidConfig)
	}
	if cloudFlags.count() > 1 {
		return nil, fmt.Errorf("%w: --aws, --google and --azure are mutually exclusive", sparkify.ErrInvalidConfig)
	}

	var (
		cfg *sparkify.ConnectionConfig
		err error
	)
	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	cfg.Database = sparkify.DatabaseName
	if cfg.AppName == "" {
		cfg.AppName = "sparkify"
	}

	if err := applyAuthMethod(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFromConnectionString(connStr string, envVars *EnvVars) (*sparkify.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid connection string: %v", sparkify.ErrInvalidConfig, err)
	}
	if cfg.Password == "" {
		cfg.Password = firstNonEmpty(envVars.SPARKIFY_DB_PASSWORD, envVars.PGPASSWORD)
	}
	return cfg, nil
}

func resolveFromGranularParams(flags *GranularConnFlags, env *EnvVars, pc config.ConnectionConfig) (*sparkify.ConnectionConfig, error) {
	cfg := &sparkify.ConnectionConfig{
		AuthMethod:       sparkify.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.SPARKIFY_DB_HOST, env.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid $PGPORT value '%s': must be an integer", sparkify.ErrInvalidConfig, env.PGPORT)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, env.SPARKIFY_DB_USER, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = firstNonEmpty(env.SPARKIFY_DB_PASSWORD, env.PGPASSWORD)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

// applyAuthMethod picks the authentication method: a cloud flag wins over
// auth_method in sparkify.yaml.
func applyAuthMethod(cfg *sparkify.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method, err := sparkify.ParseAuthMethod(pc.AuthMethod)
	if err != nil {
		return fmt.Errorf("%w: %v", sparkify.ErrInvalidConfig, err)
	}
	switch {
	case flags.AWS:
		method = sparkify.AuthMethodAWSIAM
	case flags.Google:
		method = sparkify.AuthMethodGoogleIAM
	case flags.Azure:
		method = sparkify.AuthMethodAzureEntraID
	}
	cfg.AuthMethod = method

	switch method {
	case sparkify.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case sparkify.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	case sparkify.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

// ResolveMaintenanceDatabase returns the database used for CREATE/DROP DATABASE:
// flag > sparkify.yaml > sparkify.DefaultManagementDB.
func ResolveMaintenanceDatabase(flag string, projectConfig *config.ProjectConfig) string {
	var fromFile string
	if projectConfig != nil {
		fromFile = projectConfig.Connection.MaintenanceDatabase
	}
	return firstNonEmpty(flag, fromFile, sparkify.DefaultManagementDB)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
