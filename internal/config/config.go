package config

import "github.com/spf13/viper"

type Config struct {
	Port        string
	Env         string
	DBSource    string
	DemoMode    bool
	AIBaseURL   string
	AIKey       string
	TokenSecret string
	SeedBalance int64
}

// Load reads configuration from the environment. DB_SOURCE is optional:
// when empty the server runs on the in-memory store, which is the
// intended setup for demo mode.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DEMO_MODE", true)
	v.SetDefault("AI_BASE_URL", "http://localhost:5001/api")
	v.SetDefault("TOKEN_SECRET", "dev-secret-change-me")
	v.SetDefault("SEED_BALANCE", 20)

	return &Config{
		Port:        v.GetString("SERVER_PORT"),
		Env:         v.GetString("ENVIRONMENT"),
		DBSource:    v.GetString("DB_SOURCE"),
		DemoMode:    v.GetBool("DEMO_MODE"),
		AIBaseURL:   v.GetString("AI_BASE_URL"),
		AIKey:       v.GetString("AI_SERVICE_KEY"),
		TokenSecret: v.GetString("TOKEN_SECRET"),
		SeedBalance: v.GetInt64("SEED_BALANCE"),
	}, nil
}
