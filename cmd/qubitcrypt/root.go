// Command qubitcrypt generates post-quantum keys and encrypts or decrypts
// CMS enveloped data for KEM recipients.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

type app struct {
	cfg      *Config
	settings *settings
	log      *logrus.Logger

	envFile  string
	logLevel string
}

func run(args []string, cfg *Config) error {
	root := newRootCmd(cfg)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(cfg.Stderr, "error: %v\n", err)
	}
	return err
}

func newRootCmd(cfg *Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "qubitcrypt",
		Short:         "Post-quantum key generation and CMS enveloped data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, explicit := defaultEnvFile, cmd.Flags().Changed("env-file")
			if explicit {
				path = a.envFile
			}
			s, err := loadSettings(path, explicit)
			if err != nil {
				return err
			}
			a.settings = s

			level := a.logLevel
			if !cmd.Flags().Changed("log-level") {
				level = s.get(envLogLevel, level)
			}
			log, err := newLogger(cfg.Stderr, level)
			if err != nil {
				return err
			}
			a.log = log
			a.log.WithField("env_file", path).Debug("configuration loaded")
			return nil
		},
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	root.PersistentFlags().StringVar(&a.envFile, "env-file", defaultEnvFile, "file with QUBITCRYPT_* defaults")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")

	root.AddCommand(a.keygenCmd(), a.encryptCmd(), a.decryptCmd(), a.algorithmsCmd())
	return root
}

// flagOrEnv returns the flag value when set on the command line, else the
// environment or env file value, else the flag default.
func (a *app) flagOrEnv(cmd *cobra.Command, flag, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return value
	}
	return a.settings.get(env, value)
}

// lookupAlgorithm resolves a display name (case-insensitive) or dotted OID
// among ids.
func lookupAlgorithm(kind, arg string, ids []string) (string, error) {
	for _, id := range ids {
		if arg == id || strings.EqualFold(arg, registry.Name(id)) {
			return id, nil
		}
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = registry.Name(id)
	}
	return "", fmt.Errorf("unknown %s %q (want one of %s)", kind, arg, strings.Join(names, ", "))
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(a.cfg.Stdin)
	}
	return os.ReadFile(path)
}

func (a *app) writeOutput(path string, data []byte, perm os.FileMode) error {
	if path == "" || path == "-" {
		_, err := a.cfg.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, perm)
}
