package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables read by the CLI. A value set in the process
// environment wins over the same key in the env file.
const (
	envLogLevel = "QUBITCRYPT_LOG_LEVEL"
	envKDF      = "QUBITCRYPT_KDF"
	envWrap     = "QUBITCRYPT_WRAP"
	envCipher   = "QUBITCRYPT_CIPHER"
)

const defaultEnvFile = ".env"

// Config holds the I/O streams used by the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config using the standard streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// settings carries values resolved from the env file and environment.
type settings struct {
	file map[string]string
}

// loadSettings reads path with godotenv. The default file may be absent; an
// explicitly named one may not.
func loadSettings(path string, explicit bool) (*settings, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &settings{file: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return &settings{file: values}, nil
}

func (s *settings) get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	if s != nil {
		if v, ok := s.file[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}
