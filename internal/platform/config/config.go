package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Debug       bool
	DatabaseURL string

	// JWTSigningKey enables the bearer-token middleware on mutating routes
	// when non-empty.
	JWTSigningKey string

	Airtable  Airtable
	Workspace Workspace
}

// Airtable configures the roster import client.
type Airtable struct {
	APIToken string
	BaseURL  string
}

// Workspace configures the Google Workspace directory export client.
type Workspace struct {
	ServiceAccountEmail string
	PrivateKeyID        string
	PrivateKey          string
	TokenURL            string
	ImpersonatedUser    string
	Domain              string
}

// StorageTimeout bounds a single storage round trip so the core surfaces
// Unavailable instead of hanging.
var StorageTimeout = 10 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PANTHEON_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	debug, _ := strconv.ParseBool(os.Getenv("PANTHEON_DEBUG"))

	airtableBase := os.Getenv("AIRTABLE_BASE_URL")
	if airtableBase == "" {
		airtableBase = "https://api.airtable.com/v0"
	}

	return Server{
		Addr:          addr,
		Debug:         debug,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Airtable: Airtable{
			APIToken: os.Getenv("AIRTABLE_API_TOKEN"),
			BaseURL:  airtableBase,
		},
		Workspace: Workspace{
			ServiceAccountEmail: os.Getenv("WORKSPACE_CLIENT_EMAIL"),
			PrivateKeyID:        os.Getenv("WORKSPACE_PRIVATE_KEY_ID"),
			PrivateKey:          os.Getenv("WORKSPACE_PRIVATE_KEY"),
			TokenURL:            os.Getenv("WORKSPACE_TOKEN_URL"),
			ImpersonatedUser:    os.Getenv("WORKSPACE_IMPERSONATED_USER"),
			Domain:              os.Getenv("WORKSPACE_DOMAIN"),
		},
	}
}
