// Package player owns audio playback: it compiles non-destructive edits
// into ffmpeg filter chains, renders them to transient files, and plays the
// result through a single external playback process. At most one playback
// process is ever live; starting a new one stops and fully reaps the
// previous one, including deleting its transient files.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/beatgen/studio/internal/edit"
)

// ErrRenderFailed marks a non-fatal render failure: the filter process
// exited non-zero, no playback was started, and the controller is idle.
var ErrRenderFailed = errors.New("render failed")

// stopTimeout is how long Stop waits for a graceful exit before killing.
const stopTimeout = time.Second

// Player is the playback controller. All methods are safe for concurrent
// use; internally every transition is serialized.
type Player struct {
	mu sync.Mutex

	exec       CommandExecutor
	log        *logrus.Logger
	playCmd    string
	ffmpegPath string
	tempDir    string

	proc        Commander
	procDone    chan struct{}
	currentFile string
	tempFiles   []string
}

// Option configures a Player.
type Option func(*Player)

// WithExecutor swaps the process spawner, used by tests.
func WithExecutor(e CommandExecutor) Option {
	return func(p *Player) { p.exec = e }
}

// WithPlayCommand overrides the external play executable (default afplay).
func WithPlayCommand(cmd string) Option {
	return func(p *Player) { p.playCmd = cmd }
}

// WithFFmpeg overrides the ffmpeg executable path.
func WithFFmpeg(path string) Option {
	return func(p *Player) { p.ffmpegPath = path }
}

func New(log *logrus.Logger, opts ...Option) *Player {
	p := &Player{
		exec:       DefaultExecutor,
		log:        log,
		playCmd:    "afplay",
		ffmpegPath: "ffmpeg",
		tempDir:    os.TempDir(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsPlaying reports whether a playback process is held and has not yet
// exited. A process that finished on its own is reported as not playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liveLocked()
}

func (p *Player) liveLocked() bool {
	if p.proc == nil {
		return false
	}
	select {
	case <-p.procDone:
		return false
	default:
		return true
	}
}

// CurrentFile returns the path being played, or "" when idle.
func (p *Player) CurrentFile() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.liveLocked() {
		return ""
	}
	return p.currentFile
}

// Play stops any current playback and plays the file as-is. A spawn failure
// is returned as a hard error.
func (p *Player) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	return p.startLocked(path)
}

func (p *Player) startLocked(path string) error {
	cmd := p.exec.Command(context.Background(), p.playCmd, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.playCmd, err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	p.proc = cmd
	p.procDone = done
	p.currentFile = path
	p.log.WithField("file", filepath.Base(path)).Debug("playback started")
	return nil
}

// PlayPitched renders the file through the pitch-shift stages into a
// transient file and plays that. With zero semitones it is identical to
// Play. A failed render leaves the controller idle and returns
// ErrRenderFailed.
func (p *Player) PlayPitched(ctx context.Context, path string, semitones int) error {
	if semitones == 0 {
		return p.Play(ctx, path)
	}
	return p.renderAndPlay(ctx, path, PitchChain(semitones))
}

// PlayWithEdits compiles the full edit chain and plays the rendered result.
// An empty chain plays the original file directly.
func (p *Player) PlayWithEdits(ctx context.Context, path string, edits edit.Model, durationMS float64, semitones int) error {
	chain := Compile(edits, durationMS, semitones)
	if len(chain) == 0 {
		return p.Play(ctx, path)
	}
	return p.renderAndPlay(ctx, path, chain)
}

func (p *Player) renderAndPlay(ctx context.Context, path string, chain Chain) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	// Register the transient file before rendering so it is cleaned up on
	// the next stop even if the render fails partway.
	tmp := filepath.Join(p.tempDir, "beatstudio-"+xid.New().String()+".wav")
	p.tempFiles = append(p.tempFiles, tmp)

	if err := p.renderLocked(ctx, path, chain, tmp); err != nil {
		return err
	}
	return p.startLocked(tmp)
}

// renderLocked runs the external filter-apply step synchronously. The
// process is always waited on, even when ctx is cancelled mid-render, so a
// file is never deleted while the renderer might still be writing it.
func (p *Player) renderLocked(ctx context.Context, src string, chain Chain, dst string) error {
	cmd := p.exec.Command(ctx, p.ffmpegPath, "-y", "-i", src, "-af", chain.String(), dst)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.ffmpegPath, err)
	}
	if err := cmd.Wait(); err != nil {
		p.log.WithField("file", filepath.Base(src)).WithError(err).Debug("render failed")
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return nil
}

// Stop terminates the current playback, reaps the process, and deletes the
// transient files it depended on. Stopping while idle is a no-op, and a
// process that already exited counts as success.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.proc != nil {
		select {
		case <-p.procDone:
			// Already exited on its own.
		default:
			_ = p.proc.Terminate()
			select {
			case <-p.procDone:
			case <-time.After(stopTimeout):
				_ = p.proc.Kill()
				<-p.procDone
			}
		}
		p.proc = nil
		p.procDone = nil
		p.currentFile = ""
	}

	// Deletion strictly follows confirmed process exit.
	for _, f := range p.tempFiles {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.WithField("file", f).WithError(err).Warn("could not remove transient file")
		}
	}
	p.tempFiles = nil
}

// Cleanup is the engine-teardown hook: identical to Stop, called once at
// shutdown so no process or temp file outlives the studio.
func (p *Player) Cleanup() {
	p.Stop()
}
