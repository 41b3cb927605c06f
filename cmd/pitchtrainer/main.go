// Package main provides the CLI entrypoint for pitchtrainer.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // MIDI driver.

	"github.com/verte-zerg/pitchtrainer/internal/audio"
	"github.com/verte-zerg/pitchtrainer/internal/config"
	"github.com/verte-zerg/pitchtrainer/internal/keymap"
	"github.com/verte-zerg/pitchtrainer/internal/midiin"
	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/notes"
	"github.com/verte-zerg/pitchtrainer/internal/stats"
	"github.com/verte-zerg/pitchtrainer/internal/store"
	"github.com/verte-zerg/pitchtrainer/internal/trainer"
	"github.com/verte-zerg/pitchtrainer/internal/tui"
)

const (
	defaultLower  = "c4"
	defaultUpper  = "c5"
	defaultVolume = 0.5
	defaultNoteMs = 800
)

var (
	trainLower    string
	trainUpper    string
	trainMidiIn   string
	trainMute     bool
	trainVolume   float64
	trainNoteMs   int
	trainSeed     int64
	trainNoReport bool

	notesLower string
	notesUpper string
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	midi.CloseDriver()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pitchtrainer",
		Short:         "Terminal ear trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainerCmd,
	}

	rootCmd.Flags().StringVar(&trainLower, "lower", defaultLower, "lowest note of the range")
	rootCmd.Flags().StringVar(&trainUpper, "upper", defaultUpper, "highest note of the range")
	rootCmd.Flags().StringVar(&trainMidiIn, "midi-in", "", "MIDI input port (name or part of it)")
	rootCmd.Flags().BoolVar(&trainMute, "mute", false, "do not play sound")
	rootCmd.Flags().Float64Var(&trainVolume, "volume", defaultVolume, "playback volume (0-1)")
	rootCmd.Flags().IntVar(&trainNoteMs, "note-ms", defaultNoteMs, "note length in milliseconds")
	rootCmd.Flags().Int64Var(&trainSeed, "seed", 0, "random seed (0 = time based)")
	rootCmd.Flags().BoolVar(&trainNoReport, "no-report", false, "skip the report printed on exit")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newMidiPortsCmd())

	return rootCmd
}

func runTrainerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lower", &trainLower, fileCfg.Trainer.Lower)
	applyStringConfig(cmd, "upper", &trainUpper, fileCfg.Trainer.Upper)
	applyStringConfig(cmd, "midi-in", &trainMidiIn, fileCfg.Trainer.MidiIn)
	applyBoolConfig(cmd, "mute", &trainMute, fileCfg.Trainer.Mute)
	applyFloatConfig(cmd, "volume", &trainVolume, fileCfg.Trainer.Volume)
	applyIntConfig(cmd, "note-ms", &trainNoteMs, fileCfg.Trainer.NoteMs)

	lower, upper, err := parseRange(trainLower, trainUpper)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Lower:  lower,
		Upper:  upper,
		MidiIn: strings.TrimSpace(trainMidiIn),
		Mute:   trainMute,
		Volume: trainVolume,
		NoteMs: trainNoteMs,
		Seed:   trainSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	engine := newEngine(cfg.Seed)
	if err := engine.SetRange(trainer.NoteRange{First: cfg.Lower, Last: cfg.Upper}); err != nil {
		return err
	}

	player, closePlayer, err := openPlayer(cfg)
	if err != nil {
		return err
	}
	defer closePlayer()

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close stats store: %v\n", cerr)
		}
	}()
	ctx := context.Background()
	runID, err := st.InsertRun(ctx, model.Run{StartedAt: time.Now(), Lower: cfg.Lower, Upper: cfg.Upper})
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	program := tea.NewProgram(tui.NewModel(engine, player, st, runID), tea.WithAltScreen())
	if cfg.MidiIn != "" {
		stop, err := midiin.Listen(cfg.MidiIn, func(ev midiin.Event) {
			program.Send(tui.NoteMsg{Pitch: ev.Pitch, Pressed: ev.Pressed})
		}, func(err error) {
			program.Send(tui.InputErrMsg{Err: err})
		})
		if err != nil {
			return fmt.Errorf("failed to open MIDI input: %w", err)
		}
		defer stop()
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if trainNoReport {
		return nil
	}
	report, err := stats.BuildReport(ctx, st, runID)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), 0); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newEngine(seed int64) *trainer.Engine {
	if seed == 0 {
		return trainer.New()
	}
	return trainer.NewWithSource(rand.New(rand.NewSource(seed)))
}

func openPlayer(cfg model.Config) (audio.Player, func(), error) {
	if cfg.Mute {
		return audio.Nop{}, func() {}, nil
	}
	sp, err := audio.NewSpeaker(time.Duration(cfg.NoteMs)*time.Millisecond, cfg.Volume)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audio device (use --mute to run silently): %w", err)
	}
	return sp, sp.Close, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config from the template unless it already exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List the notes of a range with their key bindings",
		Args:  cobra.NoArgs,
		RunE:  runNotesCmd,
	}
	cmd.Flags().StringVar(&notesLower, "lower", defaultLower, "lowest note of the range")
	cmd.Flags().StringVar(&notesUpper, "upper", defaultUpper, "highest note of the range")
	return cmd
}

func runNotesCmd(cmd *cobra.Command, _ []string) error {
	lower, upper, err := parseRange(notesLower, notesUpper)
	if err != nil {
		return err
	}
	return writeNotes(cmd.OutOrStdout(), lower, upper)
}

func writeNotes(w io.Writer, lower, upper int) error {
	names, err := notes.Names(lower, upper)
	if err != nil {
		return err
	}
	keys := keymap.New(lower, upper)
	for i, name := range names {
		pitch := lower + i
		key, ok := keys.Key(pitch)
		if !ok {
			key = "-"
		}
		if _, err := fmt.Fprintf(w, "%-4s %3d  %s\n", name, pitch, key); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if unbound := len(names) - keys.Len(); unbound > 0 {
		if _, err := fmt.Fprintf(w, "%d of %d notes have no key; use a MIDI keyboard or a narrower range.\n", unbound, len(names)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newMidiPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "midi-ports",
		Short: "List MIDI input ports",
		Args:  cobra.NoArgs,
		RunE:  runMidiPortsCmd,
	}
}

func runMidiPortsCmd(cmd *cobra.Command, _ []string) error {
	ports := midiin.Ports()
	if len(ports) == 0 {
		logErrln("No MIDI input ports found.")
		return fmt.Errorf("no MIDI input ports")
	}
	for _, p := range ports {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func parseRange(lowerName, upperName string) (int, int, error) {
	lower, err := notes.Parse(lowerName)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --lower value: %w", err)
	}
	upper, err := notes.Parse(upperName)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --upper value: %w", err)
	}
	return lower, upper, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pitchtrainer configuration
# Uncomment a value to enable it. CLI flags override config values.

[trainer]
# lower = %q            # Lowest note of the range
# upper = %q            # Highest note of the range
# midi-in = ""           # MIDI input port (name or part of it)
# mute = false           # Do not play sound
# volume = %.2f          # Playback volume (0-1)
# note-ms = %d          # Note length in milliseconds
`,
		defaultLower,
		defaultUpper,
		defaultVolume,
		defaultNoteMs,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Lower < notes.PianoFirst || cfg.Upper > notes.PianoLast {
		return fmt.Errorf("--lower and --upper must lie within %s-%s", notes.Label(notes.PianoFirst), notes.Label(notes.PianoLast))
	}
	if cfg.Lower > cfg.Upper {
		return fmt.Errorf("--lower must not be above --upper")
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	if cfg.NoteMs <= 0 {
		return fmt.Errorf("--note-ms must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
