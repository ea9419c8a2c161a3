// cmd/odic/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/odic/di"
)

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	// cobra falls back to os.Args on a nil slice
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "odic: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "odic",
		Short:         "Inspect dependency injection container options",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "container options YAML file")
	root.AddCommand(newStagesCmd(&configPath), newOptionsCmd(&configPath))
	return root
}

func newStagesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the resolution stages, innermost first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions(*configPath)
			if err != nil {
				return err
			}

			c := di.NewContainer(di.WithOptions(opts), di.WithLogger(newLogger(opts, cmd.ErrOrStderr())))
			defer func() { _ = c.Dispose() }()

			for _, stage := range c.Stages() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), stage); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newOptionsCmd(configPath *string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print or write the effective options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions(*configPath)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(opts)
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}

			if strings.TrimSpace(outPath) == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeFileAtomic(filepath.Clean(outPath), data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the options to this file instead of stdout")
	return cmd
}

func loadOptions(path string) (di.Options, error) {
	if strings.TrimSpace(path) == "" {
		return di.DefaultOptions(), nil
	}
	return di.LoadOptionsFile(path)
}

// newLogger logs to w at the level named by the options.
func newLogger(opts di.Options, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

type tempFile interface {
	Name() string
	Write(p []byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes data to a temporary file next to targetPath and
// renames it into place, so readers never see a partial file.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmpFile, err := createTempFile(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
