package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string           `env-default:"local" yaml:"env"`        // Env is the current environment: local, development, production.
	Postgres   PostgresConfig   `                    yaml:"postgres"`   // Postgres holds the database configuration
	API        APIConfig        `                    yaml:"api"`        // API holds the REST API server configuration
	Web        WebConfig        `                    yaml:"web"`        // Web holds the task board UI configuration
	Monitoring MonitoringConfig `                    yaml:"monitoring"` // Monitoring holds the metrics and health server configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Dbname   string `yaml:"db_name"`                     // Dbname is the name of the database.
}

// APIConfig struct holds the configuration of the tasks REST API.
type APIConfig struct {
	Enabled        bool     `yaml:"enabled"         env-default:"true"`  // Enabled starts the API server in this process.
	Address        string   `yaml:"address"         env-default:":8081"` // Address is the listen address of the API.
	AllowedOrigins []string `yaml:"allowed_origins"`                     // AllowedOrigins is the CORS origin list.
}

// WebConfig struct holds the configuration of the server-rendered task board.
type WebConfig struct {
	Enabled        bool          `yaml:"enabled"         env-default:"true"`                  // Enabled starts the UI server in this process.
	Address        string        `yaml:"address"         env-default:":8082"`                 // Address is the listen address of the UI.
	APIURL         string        `yaml:"api_url"         env-default:"http://localhost:8081"` // APIURL is the base URL of the tasks API.
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"0"`                     // RequestTimeout bounds API calls, zero means none.
	SessionTTL     time.Duration `yaml:"session_ttl"     env-default:"30m"`                   // SessionTTL drops boards idle for longer.
	MaxSessions    int           `yaml:"max_sessions"    env-default:"1000"`                  // MaxSessions caps the number of live boards.
}

// MonitoringConfig struct holds the configuration of the metrics and health endpoint.
type MonitoringConfig struct {
	Port int `yaml:"port" env-default:"8080"` // Port is the port of the monitoring server.
}

// MustLoad loads the configuration from a YAML file and returns a Config struct.
// A .env file in the working directory is loaded first when present.
// Every key can be overridden by an environment variable with the HESTIA_ prefix,
// for example HESTIA_POSTGRES_HOST.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	vpr := viper.New()
	vpr.SetConfigFile(configPath)
	vpr.SetEnvPrefix("hestia")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if err := vpr.ReadInConfig(); err != nil {
		panic("config error: " + err.Error())
	}

	defMonitoringPort := 8080
	defSessionTTL := 30 * time.Minute
	defMaxSessions := 1000

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("api.enabled", true)
	vpr.SetDefault("api.address", ":8081")
	vpr.SetDefault("api.allowed_origins", []string{"*"})
	vpr.SetDefault("web.enabled", true)
	vpr.SetDefault("web.address", ":8082")
	vpr.SetDefault("web.api_url", "http://localhost:8081")
	vpr.SetDefault("web.request_timeout", time.Duration(0))
	vpr.SetDefault("web.session_ttl", defSessionTTL)
	vpr.SetDefault("web.max_sessions", defMaxSessions)
	vpr.SetDefault("monitoring.port", defMonitoringPort)

	return &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		API: APIConfig{
			Enabled:        vpr.GetBool("api.enabled"),
			Address:        vpr.GetString("api.address"),
			AllowedOrigins: vpr.GetStringSlice("api.allowed_origins"),
		},
		Web: WebConfig{
			Enabled:        vpr.GetBool("web.enabled"),
			Address:        vpr.GetString("web.address"),
			APIURL:         vpr.GetString("web.api_url"),
			RequestTimeout: vpr.GetDuration("web.request_timeout"),
			SessionTTL:     vpr.GetDuration("web.session_ttl"),
			MaxSessions:    vpr.GetInt("web.max_sessions"),
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
	}
}
