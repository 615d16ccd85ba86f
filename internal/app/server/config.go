package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	IdleTimeout time.Duration

	StoragePath string
}

func NewConfig() Config {
	var config Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	config.Port = viper.GetString("Server.Port")
	idleTimeout, err := time.ParseDuration(viper.GetString("Server.IdleTimeout"))
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	config.IdleTimeout = idleTimeout
	config.StoragePath = viper.GetString("Storage.Path")

	return config
}
