package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается Validate при недопустимых значениях
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация станции. Источники по возрастанию приоритета:
// значения по умолчанию, YAML-файл, переменные окружения (.env тоже).
type Config struct {
	Intake    IntakeConfig   `yaml:"intake"`
	MES       PeerConfig     `yaml:"mes" envPrefix:"MES_"`
	Indicator PeerConfig     `yaml:"indicator" envPrefix:"INDICATOR_"`
	Auth      AuthConfig     `yaml:"auth"`
	Queue     QueueConfig    `yaml:"queue"`
	Station   StationConfig  `yaml:"station"`
	Health    HealthConfig   `yaml:"health"`
	Telegram  TelegramConfig `yaml:"telegram"`
	Log       LogConfig      `yaml:"log"`
}

type IntakeConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"INTAKE_LISTEN_ADDR"`
}

// PeerConfig адрес соседнего узла (MES или индикатор)
type PeerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type AuthConfig struct {
	Secret string `yaml:"secret" env:"AUTH_SECRET"`
}

type QueueConfig struct {
	Capacity int    `yaml:"capacity" env:"QUEUE_CAPACITY"`
	Policy   string `yaml:"policy" env:"QUEUE_POLICY"` // block | drop
}

// StationConfig параметры станции и циклов детекции
type StationConfig struct {
	Labels             []string      `yaml:"labels" env:"STATION_LABELS" envSeparator:","`
	Attempts           int           `yaml:"attempts" env:"STATION_ATTEMPTS"`
	FrameBudget        int           `yaml:"frame_budget" env:"STATION_FRAME_BUDGET"`
	SettleTime         time.Duration `yaml:"settle_time" env:"STATION_SETTLE_TIME"`
	EscalationDelay    time.Duration `yaml:"escalation_delay" env:"STATION_ESCALATION_DELAY"`
	WorkingWidth       int           `yaml:"working_width" env:"STATION_WORKING_WIDTH"`
	StripFrom          int           `yaml:"strip_from" env:"STATION_STRIP_FROM"`
	StripTo            int           `yaml:"strip_to" env:"STATION_STRIP_TO"`
	ConnectBackoff     time.Duration `yaml:"connect_backoff" env:"STATION_CONNECT_BACKOFF"`
	ConnectMaxAttempts int           `yaml:"connect_max_attempts" env:"STATION_CONNECT_MAX_ATTEMPTS"` // 0: без ограничения
}

// HealthConfig HTTP-проверки. Пустой адрес отключает сервер.
type HealthConfig struct {
	Addr string `yaml:"addr" env:"HEALTH_ADDR"`
}

// TelegramConfig бот операторов. Пустой токен отключает бота.
type TelegramConfig struct {
	Token   string  `yaml:"token" env:"TELEGRAM_TOKEN"`
	ChatIDs []int64 `yaml:"chat_ids" env:"TELEGRAM_CHAT_IDS" envSeparator:","`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Default значения по умолчанию для линии
func Default() *Config {
	return &Config{
		Intake:    IntakeConfig{ListenAddr: ":25000"},
		MES:       PeerConfig{Addr: "192.168.10.5:25000"},
		Indicator: PeerConfig{Addr: "192.168.10.3:25001"},
		Auth:      AuthConfig{Secret: "peekaboo"},
		Queue:     QueueConfig{Capacity: 3, Policy: "block"},
		Station: StationConfig{
			Labels:          []string{"X", "A1", "A2", "A3", "B1", "B2", "B3"},
			Attempts:        3,
			FrameBudget:     50,
			SettleTime:      2 * time.Second,
			EscalationDelay: 2 * time.Second,
			WorkingWidth:    800,
			StripFrom:       25,
			StripTo:         10,
			ConnectBackoff:  5 * time.Second,
		},
		Health: HealthConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load собирает конфигурацию. path может быть пустым или указывать на
// несуществующий файл, тогда используются только умолчания и окружение.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// Переменные окружения перекрывают файл
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Intake.ListenAddr != "", "intake.listen_addr is empty")
	check(c.MES.Addr != "", "mes.addr is empty")
	check(c.Indicator.Addr != "", "indicator.addr is empty")
	check(c.Auth.Secret != "", "auth.secret is empty")
	check(c.Queue.Capacity > 0, "queue.capacity must be positive, got %d", c.Queue.Capacity)
	check(c.Queue.Policy == "block" || c.Queue.Policy == "drop", "queue.policy must be block or drop, got %q", c.Queue.Policy)
	check(len(c.Station.Labels) > 0, "station.labels is empty")
	check(c.Station.Attempts > 0, "station.attempts must be positive, got %d", c.Station.Attempts)
	check(c.Station.FrameBudget > 0, "station.frame_budget must be positive, got %d", c.Station.FrameBudget)
	check(c.Station.SettleTime >= 0, "station.settle_time is negative")
	check(c.Station.EscalationDelay >= 0, "station.escalation_delay is negative")
	check(c.Station.WorkingWidth > 0, "station.working_width must be positive, got %d", c.Station.WorkingWidth)
	check(c.Station.StripFrom > c.Station.StripTo, "station.strip_from (%d) must exceed strip_to (%d)", c.Station.StripFrom, c.Station.StripTo)
	check(c.Station.ConnectBackoff >= 0, "station.connect_backoff is negative")
	check(c.Station.ConnectMaxAttempts >= 0, "station.connect_max_attempts is negative")

	var level slog.Level
	check(level.UnmarshalText([]byte(c.Log.Level)) == nil, "log.level %q is unknown", c.Log.Level)

	return errors.Join(errs...)
}

// SlogLevel уровень логирования, info при ошибке разбора
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
