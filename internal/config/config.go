package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "config.yaml"

// Config holds all configuration for the restaurant ordering system
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
	Cart     CartConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int
	StaticDir       string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int32
	MinConns int32
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
}

type LogConfig struct {
	Level string
}

// CartConfig drives the cart client: where its local state lives and which API it talks to.
type CartConfig struct {
	Dir          string
	APIURL       string
	PollInterval time.Duration
	Currency     string
}

func (c Config) String() string {
	return fmt.Sprintf(
		"Server: :%d | Database: %s@%s:%d/%s | RabbitMQ: enabled=%t %s:%d | LogLevel: %s",
		c.Server.Port,
		c.Database.User, c.Database.Host, c.Database.Port, c.Database.Database,
		c.RabbitMQ.Enabled, c.RabbitMQ.Host, c.RabbitMQ.Port,
		c.Log.Level,
	)
}

// Load reads configuration from a YAML file, letting environment variables override it.
// A .env file in the working directory is loaded first when present.
// An empty filename skips the file and uses defaults plus environment.
func Load(filename string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", filename)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			StaticDir:       v.GetString("server.static_dir"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Database: v.GetString("database.database"),
			MaxConns: v.GetInt32("database.max_conns"),
			MinConns: v.GetInt32("database.min_conns"),
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  v.GetBool("rabbitmq.enabled"),
			Host:     v.GetString("rabbitmq.host"),
			Port:     v.GetInt("rabbitmq.port"),
			User:     v.GetString("rabbitmq.user"),
			Password: v.GetString("rabbitmq.password"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Cart: CartConfig{
			Dir:          v.GetString("cart.dir"),
			APIURL:       v.GetString("cart.api_url"),
			PollInterval: v.GetDuration("cart.poll_interval"),
			Currency:     v.GetString("cart.currency"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "restaurant_user")
	v.SetDefault("database.database", "restaurant_db")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("log.level", "info")
	v.SetDefault("cart.dir", ".cart")
	v.SetDefault("cart.api_url", "http://localhost:3000")
	v.SetDefault("cart.poll_interval", 5*time.Second)
	v.SetDefault("cart.currency", "₹")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return errors.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Cart.PollInterval <= 0 {
		return errors.Errorf("cart.poll_interval must be positive, got %s", c.Cart.PollInterval)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL. Credentials are escaped.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// RabbitMQURL returns an AMQP connection URL. Credentials are escaped.
func (c *Config) RabbitMQURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.RabbitMQ.User, c.RabbitMQ.Password),
		Host:   net.JoinHostPort(c.RabbitMQ.Host, strconv.Itoa(c.RabbitMQ.Port)),
		Path:   "/",
	}
	return u.String()
}
