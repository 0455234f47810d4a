package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// MemoryDSN selects the in-process store instead of MySQL.
const MemoryDSN = "memory"

type Env struct {
	AppAddr                   string        `mapstructure:"app_addr" validate:"required"`
	AppEnv                    string        `mapstructure:"app_env" validate:"required,oneof=development test staging production"`
	GinMode                   string        `mapstructure:"gin_mode" validate:"omitempty,oneof=debug release test"`
	DBDSN                     string        `mapstructure:"db_dsn" validate:"required"`
	JWTSecret                 string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	CORSAllowedOrigins        []string      `mapstructure:"-"`
	RequireApprovalForPayment bool          `mapstructure:"require_approval_for_payment"`
	ShutdownTimeout           time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

var validate = validator.New()

// LoadEnv reads configuration from the environment and an optional .env file.
func LoadEnv() (Env, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// .env is optional
	_ = v.ReadInConfig()

	return loadFrom(v)
}

func loadFrom(v *viper.Viper) (Env, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app_addr", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("require_approval_for_payment", true)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	for _, key := range []string{"gin_mode", "db_dsn", "jwt_secret", "cors_allowed_origins"} {
		v.SetDefault(key, "")
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return Env{}, fmt.Errorf("failed to bind config: %w", err)
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	env.GinMode = strings.TrimSpace(env.GinMode)
	env.CORSAllowedOrigins = splitList(v.GetString("cors_allowed_origins"))

	if err := Validate(env); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Validate checks the struct tags of the configuration.
func Validate(env Env) error {
	if err := validate.Struct(env); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
