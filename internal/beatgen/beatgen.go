// Package beatgen wraps the external beat-gen CLI: arrangement generation,
// prompt-driven sample synthesis, and full-track rendering. The CLI is an
// opaque collaborator; this package only builds arguments, streams
// progress, and collects the files it produces.
package beatgen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Client invokes the beat-gen CLI from a project directory.
type Client struct {
	projectDir string
	bin        string
	nodePath   string
	log        *logrus.Logger
}

func New(projectDir string, log *logrus.Logger) *Client {
	return &Client{
		projectDir: projectDir,
		bin:        filepath.Join(projectDir, "bin", "beat-gen.js"),
		nodePath:   "node",
		log:        log,
	}
}

// Options are the optional generation parameters; nil pointers are omitted
// from the command line so the CLI applies its own defaults.
type Options struct {
	Seed      *int64
	Variety   *float64
	Density   *float64
	Weirdness *float64
	Duration  *int
	Preset    string
	Variants  int
}

func (o Options) args() []string {
	var args []string
	if o.Seed != nil {
		args = append(args, "--seed", strconv.FormatInt(*o.Seed, 10))
	}
	if o.Variety != nil {
		args = append(args, "--variety", formatFloat(*o.Variety))
	}
	if o.Density != nil {
		args = append(args, "--density", formatFloat(*o.Density))
	}
	if o.Weirdness != nil {
		args = append(args, "--weirdness", formatFloat(*o.Weirdness))
	}
	if o.Duration != nil {
		args = append(args, "--duration", strconv.Itoa(*o.Duration))
	}
	if o.Preset != "" {
		args = append(args, "--preset", o.Preset)
	}
	if o.Variants > 0 {
		args = append(args, "--variants", strconv.Itoa(o.Variants))
	}
	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.nodePath, append([]string{c.bin}, args...)...)
	cmd.Dir = c.projectDir
	return cmd
}

// GenerateArrangement runs `track --json --quiet` and returns the pattern
// JSON as emitted by the CLI.
func (c *Client) GenerateArrangement(ctx context.Context, genre, key string, bpm int, opts Options) (json.RawMessage, error) {
	args := []string{"track", genre, "--key", key, "--bpm", strconv.Itoa(bpm), "--json", "--quiet"}
	args = append(args, opts.args()...)

	c.log.WithFields(logrus.Fields{"genre": genre, "bpm": bpm}).Info("generating arrangement")

	var stderr bytes.Buffer
	cmd := c.command(ctx, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("beat-gen track: %w: %s", err, stderr.String())
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("beat-gen track: invalid JSON output")
	}
	return json.RawMessage(out), nil
}

// GenerateSample runs the `sample` command for a drum prompt and returns
// the paths of files that appeared in the output directory.
func (c *Client) GenerateSample(ctx context.Context, prompt, outputDir string, variants int) ([]string, error) {
	before := snapshotDir(outputDir)

	args := []string{"sample", prompt, "-o", outputDir, "--variants", strconv.Itoa(max(variants, 1))}
	c.log.WithField("prompt", prompt).Info("generating sample")

	var stderr bytes.Buffer
	cmd := c.command(ctx, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("beat-gen sample: %w: %s", err, stderr.String())
	}

	return diffDir(outputDir, before, snapshotDir(outputDir)), nil
}

// GenerateInstrumentSample runs `sample --instruments` for pitched and
// texture instruments.
func (c *Client) GenerateInstrumentSample(ctx context.Context, genre, outputDir string, variants int) ([]string, error) {
	before := snapshotDir(outputDir)

	args := []string{"sample", "--instruments", "--genre", genre,
		"-o", outputDir, "--variants", strconv.Itoa(max(variants, 1))}
	c.log.WithField("genre", genre).Info("generating instrument samples")

	var stderr bytes.Buffer
	cmd := c.command(ctx, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("beat-gen sample --instruments: %w: %s", err, stderr.String())
	}

	return diffDir(outputDir, before, snapshotDir(outputDir)), nil
}

// RenderFullTrack runs `fulltrack` and returns the rendered mix.wav path.
// Progress lines from the CLI (which rewrites them with bare carriage
// returns) are delivered one at a time to onProgress.
func (c *Client) RenderFullTrack(ctx context.Context, genre, key string, bpm int,
	samplesDir, mixConfig string, opts Options, onProgress func(string)) (string, error) {

	args := []string{"fulltrack", genre, "--key", key, "--bpm", strconv.Itoa(bpm),
		"--samples", samplesDir}
	args = append(args, opts.args()...)
	if mixConfig != "" {
		args = append(args, "--mix", mixConfig)
	}

	c.log.WithFields(logrus.Fields{"genre": genre, "bpm": bpm}).Info("rendering full track")

	cmd := c.command(ctx, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start beat-gen fulltrack: %w", err)
	}

	done := make(chan struct{}, 2)
	stream := func(r *bufio.Scanner) {
		r.Split(ScanProgressLines)
		for r.Scan() {
			if line := r.Text(); line != "" && onProgress != nil {
				onProgress(line)
			}
		}
		done <- struct{}{}
	}
	go stream(bufio.NewScanner(stdout))
	go stream(bufio.NewScanner(stderr))
	<-done
	<-done

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("beat-gen fulltrack: %w", err)
	}

	mix, err := c.findMix(genre, key, bpm)
	if err != nil {
		return "", err
	}
	return mix, nil
}

// findMix locates the newest output directory for the render parameters.
func (c *Client) findMix(genre, key string, bpm int) (string, error) {
	pattern := filepath.Join(c.projectDir, "data", "output",
		fmt.Sprintf("%s-%dbpm-%sm*", genre, bpm, key))
	candidates, err := filepath.Glob(pattern)
	if err != nil || len(candidates) == 0 {
		return "", fmt.Errorf("no rendered output matching %s", pattern)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return modTime(candidates[i]).After(modTime(candidates[j]))
	})

	mix := filepath.Join(candidates[0], "mix.wav")
	if _, err := os.Stat(mix); err != nil {
		return "", fmt.Errorf("rendered mix not found: %w", err)
	}
	return mix, nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// ScanProgressLines is a bufio.SplitFunc that treats both \r and \n as
// line terminators, so carriage-return progress rewrites arrive as
// individual lines.
func ScanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func snapshotDir(dir string) map[string]struct{} {
	set := make(map[string]struct{})
	entries, err := os.ReadDir(dir)
	if err != nil {
		return set
	}
	for _, e := range entries {
		set[e.Name()] = struct{}{}
	}
	return set
}

func diffDir(dir string, before, after map[string]struct{}) []string {
	var added []string
	for name := range after {
		if _, ok := before[name]; !ok {
			added = append(added, filepath.Join(dir, name))
		}
	}
	sort.Strings(added)
	return added
}
