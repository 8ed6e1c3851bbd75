package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/chapool/web3connect/internal/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "WEB3CONNECT"

type EchoServer struct {
	Debug                         bool   `json:"debug"`
	ListenAddress                 string `json:"listenAddress"`
	EnableCORSMiddleware          bool   `json:"enableCorsMiddleware"`
	EnableLoggerMiddleware        bool   `json:"enableLoggerMiddleware"`
	EnableRecoverMiddleware       bool   `json:"enableRecoverMiddleware"`
	EnableRequestIDMiddleware     bool   `json:"enableRequestIdMiddleware"`
	EnableSecureMiddleware        bool   `json:"enableSecureMiddleware"`
	EnableTrailingSlashMiddleware bool   `json:"enableTrailingSlashMiddleware"`
	BodyLimit                     string `json:"bodyLimit"`
}

type WalletServer struct {
	DefaultChainID     int64    `json:"defaultChainId"`
	EnabledAuthMethods []string `json:"enabledAuthMethods"`
	// ExternalSignerURL points at a Clef compatible signer; empty disables
	// external EVM wallets.
	ExternalSignerURL string `json:"externalSignerUrl"`
	// RememberSecret keeps the password sealed under the device id so a
	// returning user is unlocked without a prompt.
	RememberSecret    bool          `json:"rememberSecret"`
	BackupDir         string        `json:"backupDir"`
	BackupPromptAfter time.Duration `json:"backupPromptAfter"`
	ChainsFile        string        `json:"chainsFile"`
	MinPasswordLength int           `json:"minPasswordLength"`
}

// CipherServer holds the scrypt cost of the seed cipher. Envelopes carry
// their own parameters, so changing these only affects new records.
type CipherServer struct {
	ScryptN int `json:"scryptN"`
	ScryptR int `json:"scryptR"`
	ScryptP int `json:"scryptP"`
}

type Database struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"` // sensitive
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// ConnectionString returns a lib/pq key value DSN.
func (d Database) ConnectionString() string {
	params := map[string]string{
		"host":    d.Host,
		"port":    fmt.Sprint(d.Port),
		"user":    d.Username,
		"dbname":  d.Database,
		"sslmode": d.SSLMode,
	}
	if d.Password != "" {
		params["password"] = d.Password
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", k, quoteDSN(params[k]))
	}
	return b.String()
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

type StorageServer struct {
	// Backend is one of memory, file, badger or postgres.
	Backend      string   `json:"backend"`
	Dir          string   `json:"dir"`
	DeviceIDFile string   `json:"deviceIdFile"`
	Database     Database `json:"database"`
}

type MetricsServer struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type Server struct {
	Logger  util.LoggerConfig `json:"logger"`
	Echo    EchoServer        `json:"echo"`
	Wallet  WalletServer      `json:"wallet"`
	Cipher  CipherServer      `json:"cipher"`
	Storage StorageServer     `json:"storage"`
	Metrics MetricsServer     `json:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.request_level", "debug")
	v.SetDefault("logger.pretty_print_console", false)
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("echo.debug", false)
	v.SetDefault("echo.listen_address", "127.0.0.1:8080")
	v.SetDefault("echo.enable_cors_middleware", true)
	v.SetDefault("echo.enable_logger_middleware", true)
	v.SetDefault("echo.enable_recover_middleware", true)
	v.SetDefault("echo.enable_request_id_middleware", true)
	v.SetDefault("echo.enable_secure_middleware", true)
	v.SetDefault("echo.enable_trailing_slash_middleware", true)
	v.SetDefault("echo.body_limit", "64K")

	v.SetDefault("wallet.default_chain_id", 1)
	v.SetDefault("wallet.enabled_auth_methods", []string{"google", "email-link", "anonymous", "wallet"})
	v.SetDefault("wallet.external_signer_url", "")
	v.SetDefault("wallet.remember_secret", false)
	v.SetDefault("wallet.backup_dir", "./backups")
	v.SetDefault("wallet.backup_prompt_after", 15*time.Minute)
	v.SetDefault("wallet.chains_file", "")
	v.SetDefault("wallet.min_password_length", 8)

	v.SetDefault("cipher.scrypt_n", 1<<18)
	v.SetDefault("cipher.scrypt_r", 8)
	v.SetDefault("cipher.scrypt_p", 1)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.device_id_file", "./data/device-id")
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.username", "web3connect")
	v.SetDefault("storage.database.password", "")
	v.SetDefault("storage.database.database", "web3connect")
	v.SetDefault("storage.database.ssl_mode", "disable")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load resolves the config from defaults, the optional file at path and
// WEB3CONNECT_* environment variables, in increasing priority.
func Load(path string) (Server, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Server{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	level, err := parseLevel(v.GetString("logger.level"))
	if err != nil {
		return Server{}, err
	}
	requestLevel, err := parseLevel(v.GetString("logger.request_level"))
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Logger: util.LoggerConfig{
			Level:              level,
			RequestLevel:       requestLevel,
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
			File:               v.GetString("logger.file"),
			MaxSizeMB:          v.GetInt("logger.max_size_mb"),
			MaxBackups:         v.GetInt("logger.max_backups"),
			MaxAgeDays:         v.GetInt("logger.max_age_days"),
			Compress:           v.GetBool("logger.compress"),
		},
		Echo: EchoServer{
			Debug:                         v.GetBool("echo.debug"),
			ListenAddress:                 v.GetString("echo.listen_address"),
			EnableCORSMiddleware:          v.GetBool("echo.enable_cors_middleware"),
			EnableLoggerMiddleware:        v.GetBool("echo.enable_logger_middleware"),
			EnableRecoverMiddleware:       v.GetBool("echo.enable_recover_middleware"),
			EnableRequestIDMiddleware:     v.GetBool("echo.enable_request_id_middleware"),
			EnableSecureMiddleware:        v.GetBool("echo.enable_secure_middleware"),
			EnableTrailingSlashMiddleware: v.GetBool("echo.enable_trailing_slash_middleware"),
			BodyLimit:                     v.GetString("echo.body_limit"),
		},
		Wallet: WalletServer{
			DefaultChainID:     v.GetInt64("wallet.default_chain_id"),
			EnabledAuthMethods: splitList(v.GetStringSlice("wallet.enabled_auth_methods")),
			ExternalSignerURL:  v.GetString("wallet.external_signer_url"),
			RememberSecret:     v.GetBool("wallet.remember_secret"),
			BackupDir:          v.GetString("wallet.backup_dir"),
			BackupPromptAfter:  v.GetDuration("wallet.backup_prompt_after"),
			ChainsFile:         v.GetString("wallet.chains_file"),
			MinPasswordLength:  v.GetInt("wallet.min_password_length"),
		},
		Cipher: CipherServer{
			ScryptN: v.GetInt("cipher.scrypt_n"),
			ScryptR: v.GetInt("cipher.scrypt_r"),
			ScryptP: v.GetInt("cipher.scrypt_p"),
		},
		Storage: StorageServer{
			Backend:      v.GetString("storage.backend"),
			Dir:          v.GetString("storage.dir"),
			DeviceIDFile: v.GetString("storage.device_id_file"),
			Database: Database{
				Host:     v.GetString("storage.database.host"),
				Port:     v.GetInt("storage.database.port"),
				Username: v.GetString("storage.database.username"),
				Password: v.GetString("storage.database.password"),
				Database: v.GetString("storage.database.database"),
				SSLMode:  v.GetString("storage.database.ssl_mode"),
			},
		},
		Metrics: MetricsServer{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	return cfg, nil
}

// DefaultServiceConfigFromEnv returns the server config as configured by ENV
// vars and an optional .env file in the working directory.
func DefaultServiceConfigFromEnv() Server {
	// .env never overrides variables already present in the environment
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := Load("")
	if err != nil {
		log.Panic().Err(err).Msg("Failed to load service config from env")
	}

	return cfg
}

func parseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

// splitList accepts both repeated values and a single comma separated env var.
func splitList(values []string) []string {
	var res []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				res = append(res, part)
			}
		}
	}
	return res
}
