package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// connectionFlags holds the persistent flag values shared by every command
// that talks to the database.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	sslMode        string
	azure          bool
	azureTenantID  string
	azureClientID  string
	aws            bool
	awsRegion      string
	google         bool
	googleInstance string
	maintenanceDB  string
	timeout        time.Duration
	configPath     string
}

var globalFlags connectionFlags

func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	pf := cmd.PersistentFlags()

	pf.StringVarP(&f.connection, "connection", "c", "",
		"PostgreSQL connection string (URI or key=value format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username, --sslmode).\n"+
			"Alternative: DATABASE_URL environment variable.\n"+
			"The database is always sparkifydb, whatever the string names.")
	pf.StringVarP(&f.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $SPARKIFY_DB_HOST > $PGHOST > sparkify.yaml > localhost")
	pf.IntVarP(&f.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > sparkify.yaml > 5432")
	pf.StringVarP(&f.username, "username", "U", "",
		"PostgreSQL user (default: $SPARKIFY_DB_USER, $PGUSER or current OS user)")
	pf.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	pf.BoolVar(&f.aws, "aws", false,
		"Enable AWS IAM authentication (RDS auth token)")
	pf.StringVar(&f.awsRegion, "aws-region", "",
		"AWS region of the RDS instance (overrides $AWS_REGION)")
	pf.BoolVar(&f.google, "google", false,
		"Enable Google Cloud SQL IAM authentication")
	pf.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
	pf.BoolVar(&f.azure, "azure", false,
		"Enable Azure Entra ID authentication\n"+
			"Uses DefaultAzureCredential chain (Managed Identity, Azure CLI, etc.)")
	pf.StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	pf.StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	pf.StringVar(&f.maintenanceDB, "maintenance-db", "",
		"Database used for CREATE/DROP DATABASE (default: postgres)")
	pf.DurationVar(&f.timeout, "timeout", 0,
		"Upper bound for the whole command, e.g. 30s, 5m (default: no limit)")
	pf.StringVar(&f.configPath, "config", "",
		"Path to the project file (default: ./sparkify.yaml when present)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
}

// resolveConnection turns flags, environment and project file into a
// connection config targeting sparkifydb, plus the maintenance database name.
func resolveConnection(f connectionFlags, projectCfg *config.ProjectConfig, verbose bool) (*sparkify.ConnectionConfig, string, error) {
	granular := &db.GranularConnFlags{
		Host:     f.host,
		Port:     f.port,
		Username: f.username,
		SSLMode:  f.sslMode,
	}
	cloud := &db.CloudFlags{
		AWS:            f.aws,
		AWSRegion:      f.awsRegion,
		Google:         f.google,
		GoogleInstance: f.googleInstance,
		Azure:          f.azure,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
	}

	connConfig, err := db.ResolveConnectionParams(f.connection, granular, cloud, db.LoadFromEnvironment(), projectCfg)
	if err != nil {
		return nil, "", err
	}
	maintenanceDB := db.ResolveMaintenanceDatabase(f.maintenanceDB, projectCfg)

	if verbose {
		logConnectionVerbose(connConfig, maintenanceDB)
	}
	return connConfig, maintenanceDB, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(connConfig *sparkify.ConnectionConfig, maintenanceDB string) {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
	fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
	fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
	fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", connConfig.Database)
	fmt.Fprintf(os.Stderr, "  Maintenance Database: %s\n", maintenanceDB)
	fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
	fmt.Fprintf(os.Stderr, "  Auth Method: %s\n", connConfig.AuthMethod)
}
