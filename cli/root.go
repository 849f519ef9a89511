// Package cli is the terminal client for the termometro server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultServer = "http://localhost:8000"
	envServer     = "TERMOMETRO_SERVIDOR"
)

// ProfileManager loads and saves the local profile.
type ProfileManager interface {
	Path() string
	Load(ctx context.Context) (Profile, error)
	Save(ctx context.Context, p Profile) error
}

// Dependencies wires runtime services.
type Dependencies struct {
	NewAPI   func(baseURL string) ReportAPI
	Geocoder Geocoder
	Profiles ProfileManager
	NewChart func() Chart
	Version  string
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Server string
	Format string
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}
	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "termometro",
		Short:         "Reportá si un aula está fría o calurosa.",
		Version:       resolvedVersion(deps.Version),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	addGlobalFlags(root.PersistentFlags(), flags)

	root.AddCommand(newRoomsCommand(deps, flags))
	root.AddCommand(newReportCommand(deps, flags))
	root.AddCommand(newStatsCommand(deps, flags))
	root.AddCommand(newProfileCommand(deps, flags))
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, flags *globalFlags) {
	fs.StringVar(&flags.Server, "servidor", "", "Server base URL. Defaults to the profile, then $TERMOMETRO_SERVIDOR, then "+defaultServer+".")
	fs.StringVar(&flags.Format, "formato", "table", "Output format: table, json, or yaml.")
}

func resolvedVersion(v string) string {
	if strings.TrimSpace(v) == "" {
		return "dev"
	}
	return v
}

// loadProfile treats a missing profile as empty.
func loadProfile(ctx context.Context, deps Dependencies) (Profile, error) {
	if deps.Profiles == nil {
		return Profile{}, nil
	}
	p, err := deps.Profiles.Load(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return Profile{}, nil
	}
	return p, err
}

func resolveServer(flags *globalFlags, profile Profile) string {
	for _, candidate := range []string{flags.Server, profile.Servidor, os.Getenv(envServer)} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return defaultServer
}

func (d Dependencies) api(baseURL string) ReportAPI {
	if d.NewAPI != nil {
		return d.NewAPI(baseURL)
	}
	return NewClient(baseURL)
}

func (d Dependencies) chart() Chart {
	if d.NewChart != nil {
		return d.NewChart()
	}
	return NewBarChart(40)
}
