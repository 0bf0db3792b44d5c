// Package catalog scans the sample directory and classifies files into
// per-instrument variant lists by filename pattern.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Instrument groups, in display order.
var (
	DrumInstruments    = []string{"kick", "snare", "hihat", "hihat-open", "rimshot", "clap"}
	PitchedInstruments = []string{"bass", "lead", "pad", "arp", "fx", "subBass"}
	TextureInstruments = []string{"vocalChop", "texture", "noise", "scratch", "atmosphere", "stab"}
)

// AllInstruments is every instrument the catalog buckets samples under.
var AllInstruments = concat(DrumInstruments, PitchedInstruments, TextureInstruments)

// drumNoteMap maps General-MIDI drum note numbers to instrument names.
// Notes outside this table are not recognized and their files are skipped.
var drumNoteMap = map[int]string{
	35: "kick",
	36: "kick",
	38: "snare",
	42: "hihat",
	46: "hihat-open",
	37: "rimshot",
	39: "clap",
	44: "pedal-hihat",
	49: "crash",
	51: "ride",
	56: "cowbell",
	75: "clave",
}

// SampleRecord describes one sample file on disk. Records are rebuilt on
// every scan and never mutated.
type SampleRecord struct {
	Path       string
	Filename   string
	Instrument string
	VariantNum int // 0 when the filename encodes no variant
	SizeBytes  int64
	// EstimatedDuration is a rough size-based guess in seconds, never
	// decoded from the file.
	EstimatedDuration float64
	MIDINote          int // 0 unless the filename encodes a drum note
}

var (
	drumNoteRe = regexp.MustCompile(`^(\d+)-(.+)`)
	variantRe  = regexp.MustCompile(`^([a-zA-Z]+)-v(\d+)`)
)

// classifiers are tried in order; the first match wins. A nil record with
// ok=true never happens: ok=false means "rule does not apply, try the next".
var classifiers = []func(stem string) (instrument string, variant, note int, ok bool){
	classifyDrumNote,
	classifyVariant,
	classifyBareName,
}

func classifyDrumNote(stem string) (string, int, int, bool) {
	m := drumNoteRe.FindStringSubmatch(stem)
	if m == nil {
		return "", 0, 0, false
	}
	note, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, 0, false
	}
	inst, known := drumNoteMap[note]
	if !known {
		return "", 0, 0, false
	}
	return inst, 0, note, true
}

func classifyVariant(stem string) (string, int, int, bool) {
	m := variantRe.FindStringSubmatch(stem)
	if m == nil {
		return "", 0, 0, false
	}
	inst := m[1]
	if !isInstrument(inst) {
		return "", 0, 0, false
	}
	variant, _ := strconv.Atoi(m[2])
	return inst, variant, 0, true
}

func classifyBareName(stem string) (string, int, int, bool) {
	for _, inst := range AllInstruments {
		if strings.EqualFold(stem, inst) {
			return inst, 0, 0, true
		}
	}
	return "", 0, 0, false
}

// Catalog scans a directory of sample files.
type Catalog struct {
	Dir string
}

func New(dir string) *Catalog {
	return &Catalog{Dir: dir}
}

// Scan returns the instrument→samples mapping for the catalog directory.
// Every instrument is present as a key even when its bucket is empty, and a
// missing directory yields the same all-empty shape rather than an error.
// Files that match no classification rule are silently skipped.
func (c *Catalog) Scan() map[string][]SampleRecord {
	result := make(map[string][]SampleRecord, len(AllInstruments))
	for _, inst := range AllInstruments {
		result[inst] = nil
	}

	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return result
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".wav" && ext != ".mp3" {
			continue
		}

		rec, ok := c.classify(entry)
		if !ok {
			continue
		}
		// Drum notes can map to instruments outside the bucketed set
		// (crash, ride, ...); those are parsed but not listed.
		if _, bucketed := result[rec.Instrument]; !bucketed {
			continue
		}
		result[rec.Instrument] = append(result[rec.Instrument], rec)
	}

	return result
}

func (c *Catalog) classify(entry fs.DirEntry) (SampleRecord, bool) {
	name := entry.Name()
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}

	for _, rule := range classifiers {
		inst, variant, note, ok := rule(stem)
		if !ok {
			continue
		}
		return SampleRecord{
			Path:              filepath.Join(c.Dir, name),
			Filename:          name,
			Instrument:        inst,
			VariantNum:        variant,
			SizeBytes:         size,
			EstimatedDuration: estimateDuration(size),
			MIDINote:          note,
		}, true
	}
	return SampleRecord{}, false
}

// estimateDuration guesses seconds from byte size assuming 44.1kHz 16-bit.
func estimateDuration(size int64) float64 {
	return float64(size) / 44100 / 2
}

// Delete removes a sample file. Deleting a file that is already gone is not
// an error.
func (c *Catalog) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete sample %s: %w", path, err)
	}
	return nil
}

func isInstrument(name string) bool {
	for _, inst := range AllInstruments {
		if inst == name {
			return true
		}
	}
	return false
}

func concat(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// SortedVariants returns the records ordered by variant number then
// filename, for stable display.
func SortedVariants(recs []SampleRecord) []SampleRecord {
	out := make([]SampleRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].VariantNum != out[j].VariantNum {
			return out[i].VariantNum < out[j].VariantNum
		}
		return out[i].Filename < out[j].Filename
	})
	return out
}
