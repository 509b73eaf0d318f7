package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/hivemeet/signaling/internal/models"
)

type Config struct {
	Port           int                     `mapstructure:"port"`
	Mode           string                  `mapstructure:"mode"`
	AllowedOrigins []string                `mapstructure:"allowed_origins"`
	JWTSecret      string                  `mapstructure:"jwt_secret"`
	ReadLimit      int64                   `mapstructure:"read_limit"`
	PingPeriod     time.Duration           `mapstructure:"ping_period"`
	Redis          RedisConfig             `mapstructure:"redis"`
	ICEServers     []ICEServerConfig       `mapstructure:"ice_servers"`
	Media          models.MediaConstraints `mapstructure:"media"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ICEServerConfig is one STUN/TURN entry from configuration. TURN
// credentials are supplied here, never generated.
type ICEServerConfig struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// PionICEServers converts the configured entries into the shape clients
// expect in the config notice ({urls, username, credential}).
func (c *Config) PionICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		server := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigFile(fmt.Sprintf("config/config.%s.yaml", env))

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("media.max_width", 1920)
	v.SetDefault("media.max_height", 1080)
	v.SetDefault("media.ideal_width", 1280)
	v.SetDefault("media.ideal_height", 720)
	v.SetDefault("media.min_frame_rate", 15)
	v.SetDefault("media.max_frame_rate", 30)
	v.SetDefault("media.echo_cancellation", true)
	v.SetDefault("media.noise_suppression", true)
	v.SetDefault("media.auto_gain_control", true)

	v.SetEnvPrefix("SIGNALING")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("file", v.ConfigFileUsed()).Msg("config file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
