package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	ListenAddr     string  `json:"listen_addr"`
	MysqlDSN       string  `json:"mysql_dsn"`
	RedisAddr      string  `json:"redis_addr"`
	RedisPass      string  `json:"redis_pass"`
	RedisDB        int     `json:"redis_db"`
	Salt           string  `json:"salt"`
	RapidAPIKey    string  `json:"rapidapi_key"`
	RapidAPIHost   string  `json:"rapidapi_host"`
	CacheTTLMin    int     `json:"cache_ttl_min"`
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
	ProvidersFile  string  `json:"providers_file"`
	LogLevel       string  `json:"log_level"`
}

var cfg *Config

func Get() Config {
	if cfg == nil {
		return defaults()
	}
	return *cfg
}

func defaults() Config {
	return Config{
		ListenAddr:     ":8080",
		RapidAPIHost:   "ytstream-download-youtube-videos.p.rapidapi.com",
		CacheTTLMin:    30,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		ProvidersFile:  "providers.yaml",
		LogLevel:       "INFO",
	}
}

// LoadConfig reads the JSON config file when it exists, then applies
// environment overrides on top. A missing file is not an error; the
// service can run on env vars alone.
func LoadConfig(path string) (*Config, error) {
	temp := defaults()
	if data, err := os.ReadFile(path); err == nil {
		if err = json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	applyEnv(&temp)
	cfg = &temp
	return cfg, nil
}

func applyEnv(c *Config) {
	c.ListenAddr = envOr("LISTEN_ADDR", c.ListenAddr)
	c.MysqlDSN = envOr("MYSQL_DSN", c.MysqlDSN)
	c.RedisAddr = envOr("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = envOr("REDIS_PASS", c.RedisPass)
	c.Salt = envOr("SIGN_SALT", c.Salt)
	c.RapidAPIKey = envOr("RAPIDAPI_KEY", c.RapidAPIKey)
	c.RapidAPIHost = envOr("RAPIDAPI_HOST", c.RapidAPIHost)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	if s := os.Getenv("REDIS_DB"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			c.RedisDB = v
		}
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
