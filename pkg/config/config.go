package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Pagination PaginationConfig
	Telemetry  TelemetryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	// LockTimeoutMs acota la espera por locks de fila (lock_timeout). 0 = sin límite.
	LockTimeoutMs int
	// StatementTimeoutMs acota cualquier sentencia (statement_timeout). 0 = sin límite.
	StatementTimeoutMs int
	AutoMigrate        bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración para validar el token del proveedor de identidad.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PaginationConfig tamaños de página para listados.
type PaginationConfig struct {
	DefaultSize int
	MaxSize     int
}

// TelemetryConfig exportación de trazas OpenTelemetry (OTLP/HTTP).
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_LOCK_TIMEOUT_MS, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "piecework-ledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:        getString(v, "DATABASE_URL", ""),
			Host:               getString(v, "DB_HOST", "localhost"),
			Port:               getInt(v, "DB_PORT", 5432),
			User:               getString(v, "DB_USER", "postgres"),
			Password:           getString(v, "DB_PASSWORD", ""),
			DBName:             getString(v, "DB_NAME", "piecework"),
			SSLMode:            getString(v, "DB_SSLMODE", "disable"),
			MaxConns:           getInt(v, "DB_MAX_CONNS", 25),
			LockTimeoutMs:      getInt(v, "DB_LOCK_TIMEOUT_MS", 5000),
			StatementTimeoutMs: getInt(v, "DB_STATEMENT_TIMEOUT_MS", 15000),
			AutoMigrate:        getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", ""),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Pagination: PaginationConfig{
			DefaultSize: getInt(v, "PAGE_SIZE_DEFAULT", 20),
			MaxSize:     getInt(v, "PAGE_SIZE_MAX", 100),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getBool(v, "OTEL_ENABLED", false),
			Endpoint:    getString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getString(v, "OTEL_SERVICE_NAME", "piecework-ledger"),
		},
	}

	if cfg.DB.LockTimeoutMs < 0 || cfg.DB.StatementTimeoutMs < 0 {
		return nil, fmt.Errorf("config: timeouts de BD no pueden ser negativos")
	}
	if cfg.Pagination.DefaultSize <= 0 || cfg.Pagination.MaxSize < cfg.Pagination.DefaultSize {
		return nil, fmt.Errorf("config: PAGE_SIZE_DEFAULT=%d y PAGE_SIZE_MAX=%d inconsistentes",
			cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
