package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/tonearm/internal/app"
	"github.com/five82/tonearm/internal/config"
	"github.com/five82/tonearm/internal/logging"
	"github.com/five82/tonearm/internal/musicd"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	host       string
	prefsPath  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "tonearm",
		Short: "Terminal remote for the musicd player daemon",
		Long: "tonearm controls a musicd daemon. Without a subcommand it opens the\n" +
			"interactive player; subcommands send a single request and exit.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{Config: cfg, PrefsPath: opts.prefsPath})
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/tonearm/config.toml)")
	flags.StringVar(&opts.host, "host", "", "musicd address, overrides config and environment")
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/tonearm/prefs.toml)")

	cmd.AddCommand(
		newStatusCmd(opts),
		newPlaylistsCmd(opts),
		newJobsCmd(opts),
		newSimpleCmd(opts, "play", "Resume playback", (*musicd.Client).Play),
		newSimpleCmd(opts, "pause", "Pause playback", (*musicd.Client).Pause),
		newSimpleCmd(opts, "prev", "Skip to the previous track", (*musicd.Client).Prev),
		newSimpleCmd(opts, "next", "Skip to the next track", (*musicd.Client).Next),
		newSimpleCmd(opts, "clean", "Remove the daemon's temporary downloads", (*musicd.Client).Clean),
		newSeekCmd(opts),
		newVolumeCmd(opts),
		newTrackCmd(opts),
		newPlaylistCmd(opts),
		newPublishCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

// loadConfig reads the config file and environment, then applies --host.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if o.host != "" {
		cfg.Host = o.host
	}
	return cfg, nil
}

// client builds a daemon client from the effective configuration.
func (o *rootOptions) client() (*musicd.Client, config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	client, err := musicd.NewClient(cfg.Host)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("init musicd client: %w", err)
	}
	return client, cfg, nil
}

// consoleLogger logs to the command's stderr; one-shot commands own the
// terminal so nothing goes to the log file.
func consoleLogger(cmd *cobra.Command, level string) (zerolog.Logger, error) {
	logger, _, err := logging.New(logging.Options{Level: level, Console: cmd.ErrOrStderr()})
	return logger, err
}
