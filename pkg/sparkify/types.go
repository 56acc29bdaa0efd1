package sparkify

import (
	"errors"
	"fmt"
	"time"
)

// Song is a row of the songs dimension.
type Song struct {
	ID       string
	Title    string
	ArtistID string
	Year     int
	Duration float64 // seconds
}

// Artist is a row of the artists dimension. Location and coordinates are optional.
type Artist struct {
	ID        string
	Name      string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

// User is a row of the users dimension. Level changes over time; the most
// recently loaded value is kept.
type User struct {
	ID        int
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// TimeRow is a row of the calendar dimension, keyed by StartTime (UTC).
// Weekday counts from Monday = 0.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// Songplay is a row of the fact table. SongID and ArtistID are nil when the
// played track could not be matched against the song and artist dimensions.
type Songplay struct {
	ID        string
	StartTime time.Time
	UserID    int
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int
	Location  string
	UserAgent string
}

// LoadConfig contains the parameters of a load operation.
type LoadConfig struct {
	// SongDataPath is the root of the song metadata tree
	SongDataPath string

	// LogDataPath is the root of the activity log tree
	LogDataPath string

	// Pattern selects data files by base name (e.g. "*.json")
	Pattern string

	// DurationTolerance is the lookup window in seconds; 0 requires exact equality
	DurationTolerance float64

	// KeepSchema creates missing tables instead of dropping and recreating them
	KeepSchema bool

	// Timeout bounds the whole load; zero means no limit
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SongDataPath == "" {
		errs = append(errs, fmt.Errorf("SongDataPath is required: %w", ErrInvalidConfig))
	}

	if c.LogDataPath == "" {
		errs = append(errs, fmt.Errorf("LogDataPath is required: %w", ErrInvalidConfig))
	}

	if c.Pattern == "" {
		c.Pattern = DefaultFilePattern
	}

	if c.DurationTolerance < 0 {
		errs = append(errs, fmt.Errorf("duration tolerance cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// InitConfig contains the parameters of a schema initialization.
type InitConfig struct {
	// RecreateDatabase drops and recreates the analytics database before the tables
	RecreateDatabase bool

	// Force skips the interactive approval for RecreateDatabase
	Force bool

	// MaintenanceDatabase is the database used for CREATE/DROP DATABASE
	MaintenanceDatabase string

	// Timeout bounds the whole operation; zero means no limit
	Timeout time.Duration
}

// Validate checks if the InitConfig is consistent.
func (c *InitConfig) Validate() error {
	var errs []error

	if c.Force && !c.RecreateDatabase {
		errs = append(errs, fmt.Errorf("force flag requires --recreate-db: %w", ErrInvalidConfig))
	}

	if c.RecreateDatabase && c.MaintenanceDatabase == DatabaseName {
		errs = append(errs, fmt.Errorf("maintenance database cannot be %q: %w", DatabaseName, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWS IAM authentication (AuthMethodAWSIAM)
	AWSRegion string

	// Google Cloud SQL instance connection name "project:region:instance" (AuthMethodGoogleIAM)
	GoogleInstance string

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps a configuration value to an AuthMethod.
// The empty string selects AuthMethodStandard.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%w: %q", ErrUnsupportedAuthMethod, s)
	}
}
