package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/userstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-n int      minimum (idle) pool connections
//	-m int      maximum pool connections
//	-l int      pooled connection max lifetime, minutes
//	-s string   password hashing secret
//	-w int      hashing worker count
//	-q int      hashing queue size
//
// Argon2 cost parameters are deliberately JSON-only; they should change
// rarely and deliberately.
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-m", "-l", "-s", "-w", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DBMinConns, "n", config.DBMinConns, "min pool connections")
	fs.IntVar(&config.DBMaxConns, "m", config.DBMaxConns, "max pool connections")

	connMaxLifetime := fs.Int("l", int(config.DBConnMaxLifetime.Minutes()), "connection max lifetime (in minutes)")

	fs.StringVar(&config.PasswordSecret, "s", config.PasswordSecret, "password hashing secret")
	fs.IntVar(&config.HashWorkers, "w", config.HashWorkers, "hashing worker count")
	fs.IntVar(&config.HashQueueSize, "q", config.HashQueueSize, "hashing queue size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DBConnMaxLifetime = time.Duration(*connMaxLifetime) * time.Minute
}
