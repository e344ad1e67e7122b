package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type MiniSqlConfig struct {
	AppName string `mapstructure:"app_name"`

	Database struct {
		Name    string `mapstructure:"name"`
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"database"`

	Server struct {
		Addr  string `mapstructure:"addr"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"server"`
}

func LoadConfig(path string) (*MiniSqlConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app_name", "minisql")
	v.SetDefault("database.name", "mydb")
	v.SetDefault("database.data_dir", "data")
	v.SetDefault("server.addr", "127.0.0.1:8866")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg MiniSqlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
