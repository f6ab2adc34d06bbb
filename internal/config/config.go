package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"APP_ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         DB     `yaml:"db"`
	Report     Report `yaml:"report"`
	Loader     Loader `yaml:"loader"`

	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	// Served as a SPA when the directory exists.
	FrontendDir string `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	User         string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name         string `yaml:"name" env:"DB_NAME" env-required:"true"`
	ParseTime    bool   `yaml:"parse_time" env-default:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"10"`
}

type Report struct {
	// first-seen | sorted | calendar
	KeyOrder       string        `yaml:"key_order" env:"REPORT_KEY_ORDER" env-default:"calendar"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"5s"`
	ExcelTimeout   time.Duration `yaml:"excel_timeout" env-default:"10s"`
}

type Loader struct {
	BatchSize int           `yaml:"batch_size" env:"LOADER_BATCH_SIZE" env-default:"500"`
	MaxBytes  int64         `yaml:"max_bytes" env-default:"10485760"`
	Timeout   time.Duration `yaml:"timeout" env-default:"60s"`
}

// Load reads the yaml file at path and applies env overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustConfig loads the config from CONFIG_PATH (or ./config/local.yaml) and exits on failure.
func MustConfig() *Config {
	return MustLoad(os.Getenv("CONFIG_PATH"))
}

func MustLoad(path string) *Config {
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", path)
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
