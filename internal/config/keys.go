package config

const (
	KeyRedmineURL     = "redmine_url"
	KeyRedmineAPIKey  = "redmine_api_key"
	KeyRedmineTimeout = "redmine_timeout"
	KeyLogLevel       = "log_level"
	KeyHTTPHost       = "host"
	KeyHTTPPort       = "port"
	KeyEndpointPath   = "endpoint_path"
)
