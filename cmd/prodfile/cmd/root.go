/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/config"
	"github.com/ssargent/prodfile/pkg/di"
)

// annotation marking commands that manage the data file themselves
const skipStore = "prodfile/skip-store"

type ctxKey struct{}

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// session is the state shared by one invocation of the command tree
type session struct {
	cfg *config.Config
	rt  *di.Runtime
}

// newRootCmd builds the prodfile command tree. The returned session must be
// closed once the command has run.
func newRootCmd() (*cobra.Command, *session) {
	sess := &session{}

	rootCmd := &cobra.Command{
		Use:   "prodfile",
		Short: "prodfile - fixed-width product record file",
		Long: `prodfile stores product records (ID, name, description, cost) as
fixed-width 126 byte slots in a single data file, and searches them by name.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sess.cfg = cfg

			if cmd.Annotations[skipStore] == "true" {
				cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, sess))
				return nil
			}

			if container == nil {
				return errors.New("dependency container not initialized")
			}
			rt, err := container.Open(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			sess.rt = rt

			// Store in command context
			cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, sess))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return sess.close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Product data file (overrides data_file)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newAddCmd(),
		newGetCmd(),
		newCountCmd(),
		newSearchCmd(),
		newScanCmd(),
		newServeCmd(),
		newShellCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newJournalCmd(),
		newConfigCmd(),
	)

	return rootCmd, sess
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree with args. PersistentPostRunE is skipped when
// a command fails, so the session is closed here as well.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	rootCmd, sess := newRootCmd()
	defer sess.close()

	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd.ExecuteContext(ctx)
}

func (s *session) close() error {
	if s.rt == nil {
		return nil
	}
	rt := s.rt
	s.rt = nil
	return rt.Close()
}

// loadConfig reads the config file when one exists and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else if explicit && cmd.Annotations[skipStore] != "true" {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if dataFile, _ := cmd.Flags().GetString("file"); dataFile != "" {
		cfg.DataFile = dataFile
	}
	return cfg, nil
}

func sessionFrom(cmd *cobra.Command) (*session, error) {
	sess, ok := cmd.Context().Value(ctxKey{}).(*session)
	if !ok {
		return nil, errors.New("store not found in context")
	}
	return sess, nil
}

func runtimeFrom(cmd *cobra.Command) (*di.Runtime, error) {
	sess, err := sessionFrom(cmd)
	if err != nil {
		return nil, err
	}
	if sess.rt == nil {
		return nil, errors.New("store not found in context")
	}
	return sess.rt, nil
}
