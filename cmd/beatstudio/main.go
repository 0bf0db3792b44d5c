// Command beatstudio is the terminal studio for auditioning, editing, and
// regenerating the samples of a beat-gen project.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/beatgen/studio/internal/app"
	"github.com/beatgen/studio/internal/beatgen"
	"github.com/beatgen/studio/internal/catalog"
	"github.com/beatgen/studio/internal/lane"
	"github.com/beatgen/studio/internal/player"
	"github.com/beatgen/studio/internal/session"
	"github.com/beatgen/studio/internal/waveform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "beatstudio:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	sessionName := flag.String("session", envOr("STUDIO_SESSION", "default"), "session to open")
	projectDir := flag.String("project", envOr("STUDIO_PROJECT_DIR", "."), "beat-gen project directory")
	flag.Parse()

	log, err := newLogger(*projectDir)
	if err != nil {
		return err
	}

	samplesDir := envOr("STUDIO_SAMPLES_DIR", filepath.Join(*projectDir, "data", "samples"))
	dbPath := envOr("STUDIO_DB", filepath.Join(*projectDir, ".studio", "sessions.db"))
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	store, err := session.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	sess, err := store.Load(*sessionName)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = session.New(*sessionName)
	}
	if sess.SamplesDir != "" {
		samplesDir = sess.SamplesDir
	}

	var playerOpts []player.Option
	if cmd := os.Getenv("STUDIO_PLAY_CMD"); cmd != "" {
		playerOpts = append(playerOpts, player.WithPlayCommand(cmd))
	}
	if ffmpeg := os.Getenv("STUDIO_FFMPEG"); ffmpeg != "" {
		playerOpts = append(playerOpts, player.WithFFmpeg(ffmpeg))
	}

	p := player.New(log, playerOpts...)
	lanes := lane.NewRunner()
	defer func() {
		lanes.Shutdown()
		p.Cleanup()
	}()

	model := app.NewModel(app.Deps{
		Catalog: catalog.New(samplesDir),
		Player:  p,
		Wave:    waveform.New(),
		Gen:     beatgen.New(*projectDir, log),
		Store:   store,
		Lanes:   lanes,
		Session: sess,
		Log:     log,
	})

	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newLogger writes to a log file rather than the terminal the UI owns.
// Without STUDIO_DEBUG logging is discarded entirely.
func newLogger(projectDir string) (*logrus.Logger, error) {
	log := logrus.New()
	if os.Getenv("STUDIO_DEBUG") == "" {
		log.SetOutput(io.Discard)
		return log, nil
	}

	log.SetLevel(logrus.DebugLevel)
	path := filepath.Join(projectDir, ".studio", "studio.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
