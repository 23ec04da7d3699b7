package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/userstore/internal/flagx"
	"github.com/dmitrijs2005/userstore/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN       string         `json:"database_dsn"`
	DBMinConns        int            `json:"db_min_conns"`
	DBMaxConns        int            `json:"db_max_conns"`
	DBConnMaxLifetime timex.Duration `json:"db_conn_max_lifetime"`

	PasswordSecret  string `json:"password_secret"`
	HashMemoryKiB   int    `json:"hash_memory_kib"`
	HashIterations  int    `json:"hash_iterations"`
	HashParallelism int    `json:"hash_parallelism"`

	HashWorkers   int `json:"hash_workers"`
	HashQueueSize int `json:"hash_queue_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.DBMinConns = c.DBMinConns
	config.DBMaxConns = c.DBMaxConns
	config.DBConnMaxLifetime = time.Duration(c.DBConnMaxLifetime.Duration)
	config.PasswordSecret = c.PasswordSecret
	config.HashMemoryKiB = c.HashMemoryKiB
	config.HashIterations = c.HashIterations
	config.HashParallelism = c.HashParallelism
	config.HashWorkers = c.HashWorkers
	config.HashQueueSize = c.HashQueueSize
}
