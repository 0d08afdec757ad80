package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez al arrancar y se pasa explícitamente; el resto del código no lee el entorno.
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	TimeZone    string // zona horaria de la tienda para cortar los días
	SeedOnEmpty bool   // carga productos base si el catálogo está vacío
}

// Location carga la zona horaria configurada.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// DBConfig configuración de PostgreSQL.
// DatabaseURL es la URL ya resuelta por ResolveDatabaseURL; DatabaseURLSource indica de dónde salió.
type DBConfig struct {
	DatabaseURL       string
	DatabaseURLSource string
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	SSLMode           string
	MaxConns          int
	MinConns          int
	AutoMigrate       bool
	ForceIPv4         bool // conectar solo por IPv4 (contenedores sin IPv6)
}

// ConnectionString devuelve el DSN a usar: DatabaseURL si está definido, si no el construido con DSN().
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

// JWTConfig configuración de JWT. Secret vacío deja las rutas de escritura sin autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// RedisConfig Addr vacío usa el almacén de idempotencia en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MetricsConfig expone /metrics para Prometheus.
type MetricsConfig struct {
	Enabled bool
}

// RateLimitConfig límite por IP para las rutas de escritura. RPS <= 0 lo desactiva.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// StorageConfig backend de persistencia: "postgres" o "memory".
type StorageConfig struct {
	Driver string
}

// URLSource una fuente candidata para la URL de la base de datos.
type URLSource struct {
	Name  string
	Value string
}

// DatabaseURLSources orden de precedencia de las variables con URL completa.
var DatabaseURLSources = []string{"DATABASE_URL", "DATABASE_PRIVATE_URL", "POSTGRES_URL"}

// ResolveDatabaseURL elige la primera fuente no vacía en el orden recibido.
// Si ninguna tiene valor usa el DSN construido desde DB_*. Devuelve la URL y el nombre de la fuente.
func ResolveDatabaseURL(sources []URLSource, fallback DBConfig) (string, string) {
	for _, s := range sources {
		if v := strings.TrimSpace(s.Value); v != "" {
			return normalizeScheme(v), s.Name
		}
	}
	return fallback.DSN(), "DB_*"
}

// normalizeScheme algunos proveedores entregan postgresql:// o postgres:// indistintamente.
func normalizeScheme(u string) string {
	if strings.HasPrefix(u, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(u, "postgresql://")
	}
	return u
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "botilleria-pos"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			TimeZone:    getString(v, "APP_TIMEZONE", "America/Santiago"),
			SeedOnEmpty: getBool(v, "APP_SEED_ON_EMPTY", false),
		},
		DB: DBConfig{
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "botilleria"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "botilleria-pos"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloat(v, "RATE_LIMIT_RPS", 20),
			Burst: getInt(v, "RATE_LIMIT_BURST", 40),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
		},
	}

	// Railway y Heroku inyectan PORT.
	if port := getInt(v, "PORT", 0); port > 0 {
		cfg.HTTP.Port = port
	}

	sources := make([]URLSource, 0, len(DatabaseURLSources))
	for _, name := range DatabaseURLSources {
		sources = append(sources, URLSource{Name: name, Value: getString(v, name, "")})
	}
	cfg.DB.DatabaseURL, cfg.DB.DatabaseURLSource = ResolveDatabaseURL(sources, cfg.DB)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER %q no soportado (postgres | memory)", c.Storage.Driver)
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("config: APP_TIMEZONE %q: %w", c.App.TimeZone, err)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: puerto HTTP inválido %d", c.HTTP.Port)
	}
	return nil
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
