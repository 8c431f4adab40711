package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"slinger/internal/app"
	"slinger/internal/platform/logging"
)

var (
	home        string
	configPath  string
	passphrase  string
	logLevel    string
	logFormat   string
	dumpMetrics bool
	wire        *app.Wire
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "slinger",
		Short:        "Device-local identity and signed, encrypted packets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Load(configPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			wire, err = app.NewWire(cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !dumpMetrics || wire == nil {
				return nil
			}
			families, err := wire.Registry.Gather()
			if err != nil {
				return err
			}
			writeMetrics(cmd.ErrOrStderr(), families)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.slinger)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the private keys")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")
	root.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "print counters on exit")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		exportCmd(),
		importCmd(),
		peersCmd(),
		sealCmd(),
		openCmd(),
		passwdCmd(),
		resetCmd(),
	)
	return root
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}

func writeMetrics(w io.Writer, families []*dto.MetricFamily) {
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), m.GetCounter().GetValue())
		}
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
