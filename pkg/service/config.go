package service

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server and job-processing settings. Every key can be
// overridden through a WCC_-prefixed environment variable, e.g.
// WCC_SERVER_ADDRESS or WCC_JOBS_MAX_WORKERS.
type Config struct {
	Server ServerConfig
	Jobs   JobConfig
}

type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UploadDir    string
}

type JobConfig struct {
	MaxWorkers      int
	JobTimeout      time.Duration
	CleanupInterval time.Duration
	ResultTTL       time.Duration
}

// LoadConfig builds the configuration from defaults and environment.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("WCC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.upload_dir", "./uploads")

	v.SetDefault("jobs.max_workers", 4)
	v.SetDefault("jobs.job_timeout", 10*time.Minute)
	v.SetDefault("jobs.cleanup_interval", 5*time.Minute)
	v.SetDefault("jobs.result_ttl", time.Hour)

	return &Config{
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			UploadDir:    v.GetString("server.upload_dir"),
		},
		Jobs: JobConfig{
			MaxWorkers:      v.GetInt("jobs.max_workers"),
			JobTimeout:      v.GetDuration("jobs.job_timeout"),
			CleanupInterval: v.GetDuration("jobs.cleanup_interval"),
			ResultTTL:       v.GetDuration("jobs.result_ttl"),
		},
	}
}
