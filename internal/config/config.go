package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Init wires viper to the environment and, when a root command is given,
// to its persistent flags. A .env file in the working directory is loaded
// first so REDMINE_URL and REDMINE_API_KEY can live there during development.
func Init(root *cobra.Command) {
	_ = godotenv.Load()
	viper.AutomaticEnv()
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyRedmineTimeout, 30)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyHTTPHost, "0.0.0.0")
	viper.SetDefault(KeyHTTPPort, 8000)
	viper.SetDefault(KeyEndpointPath, "/mcp/jsonrpc")
}

func RedmineURL() string            { return strings.TrimRight(viper.GetString(KeyRedmineURL), "/") }
func RedmineAPIKey() string         { return viper.GetString(KeyRedmineAPIKey) }
func RedmineTimeout() time.Duration { return time.Duration(viper.GetInt(KeyRedmineTimeout)) * time.Second }
func LogLevel() string              { return viper.GetString(KeyLogLevel) }
func HTTPHost() string              { return viper.GetString(KeyHTTPHost) }
func HTTPPort() int                 { return viper.GetInt(KeyHTTPPort) }
func EndpointPath() string          { return viper.GetString(KeyEndpointPath) }

// Validate checks that the values every tool invocation depends on are set.
// It runs once at startup so a misconfigured server fails before serving.
func Validate() error {
	if RedmineURL() == "" {
		return fmt.Errorf("REDMINE_URL is not set: point it at your Redmine instance, e.g. https://redmine.example.com")
	}
	if RedmineAPIKey() == "" {
		return fmt.Errorf("REDMINE_API_KEY is not set: generate one under 'My account' in Redmine")
	}
	return nil
}
