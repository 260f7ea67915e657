package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/tonearm/internal/app"
	"github.com/five82/tonearm/internal/musicd"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the daemon is playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			status, err := client.FetchStatus(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			return writeStatus(cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response")
	return cmd
}

func newPlaylistsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List published playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			playlists, err := client.FetchPlaylists(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), playlists)
			}
			t := newListing("ID", "NAME", "TRACKS", "CREATED")
			for _, p := range playlists {
				t.Row(p.Meta.ID, p.Meta.Name, strconv.Itoa(len(p.Meta.Tracks)), formatTime(p.Meta.CreatedAt))
			}
			return printListing(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response")
	return cmd
}

func newJobsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			jobs, err := client.FetchJobs(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), jobs)
			}
			t := newListing("ID", "RUN AT", "REPEAT", "REQUEST")
			for _, j := range jobs {
				t.Row(j.ID, formatTime(j.RunAt), j.RepeatLabel(), j.Method+" "+j.URL)
			}
			return printListing(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response")
	return cmd
}

// newSimpleCmd wraps a daemon command that takes no arguments.
func newSimpleCmd(opts *rootOptions, use, short string, call func(*musicd.Client, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			return done(cmd, call(client, cmd.Context()))
		},
	}
}

func newSeekCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seek <position>",
		Short: "Seek to a position (seconds or mm:ss)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			return done(cmd, client.Seek(cmd.Context(), secs))
		},
	}
}

func newVolumeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "volume <0..1>",
		Short: "Set the playback volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil || value < 0 || value > 1 {
				return fmt.Errorf("invalid volume %q (want a number between 0 and 1)", args[0])
			}
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			return done(cmd, client.SetVolume(cmd.Context(), value))
		},
	}
}

func newTrackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track <index>",
		Short: "Jump to a track of the current playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || index < 0 {
				return fmt.Errorf("invalid track index %q", args[0])
			}
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			return done(cmd, client.SelectTrack(cmd.Context(), index))
		},
	}
}

func newPlaylistCmd(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "playlist <id>",
		Short: "Switch to another playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := musicd.ParsePlaylistMode(mode)
			if err != nil {
				return err
			}
			client, _, err := opts.client()
			if err != nil {
				return err
			}
			return done(cmd, client.SelectPlaylist(cmd.Context(), args[0], parsed))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(musicd.ModeQueue), "queue (after the current track) or skip (now)")
	return cmd
}

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var downloader string
	cmd := &cobra.Command{
		Use:   "publish <name> -- <url>...",
		Short: "Download sources into a new playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := opts.client()
			if err != nil {
				return err
			}
			if downloader == "" {
				downloader = cfg.Downloader
			}
			req := musicd.PublishRequest{
				Name:       args[0],
				SourceURLs: args[1:],
				Downloader: downloader,
			}
			return done(cmd, client.Publish(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVar(&downloader, "downloader", "", "downloader the daemon should run (default from config)")
	return cmd
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print pushed events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := consoleLogger(cmd, cfg.LogLevel)
			if err != nil {
				return err
			}
			return app.Watch(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
	}
}

func done(cmd *cobra.Command, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

// parsePosition accepts plain seconds or a clock value like 1:05 or 1:02:03.
func parsePosition(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid position %q", value)
	}
	var total uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || (i > 0 && n >= 60) {
			return 0, fmt.Errorf("invalid position %q", value)
		}
		total = total*60 + n
	}
	return total, nil
}

func writeStatus(w io.Writer, s *musicd.StatusResponse) error {
	state := "playing"
	if s.Paused() {
		state = "paused"
	}
	playlist := s.PlaylistNameValue()
	if playlist == "" {
		playlist = "-"
	}
	track := s.TrackName()
	if track == "" {
		track = "-"
	}
	t := newListing().
		Row("State:", state).
		Row("Playlist:", playlist).
		Row("Track:", fmt.Sprintf("%d  %s", s.CurrentIndex, track)).
		Row("Position:", s.PositionLabel()).
		Row("Volume:", fmt.Sprintf("%.0f%%", s.VolumeLevel()*100))
	return printListing(w, t)
}

// newListing returns a borderless table with two-cell column gaps. lipgloss
// drops styling when stdout is not a terminal, so the output pipes cleanly.
func newListing(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				style = style.Bold(true)
			}
			return style
		}).
		Headers(headers...)
}

func printListing(w io.Writer, t *table.Table) error {
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
