package app

import (
	"regexp"
	"strconv"
)

var (
	ansiRe    = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	stepRe    = regexp.MustCompile(`(\d)/5\s`)
	variantRe = regexp.MustCompile(`Variant\s+(\d+)/(\d+)`)
)

// stepPcts maps the CLI's "N/5" step markers to overall percentages.
// Steps 1-3 are fast, step 4 (the audio render) dominates, step 5 is the
// summary.
var stepPcts = map[int]int{1: 5, 2: 10, 3: 15, 4: 20, 5: 95}

// parseRenderProgress maps a raw CLI progress line to an overall render
// percentage. Returns false for lines that carry no progress information.
func parseRenderProgress(line string) (int, bool) {
	clean := ansiRe.ReplaceAllString(line, "")

	if m := stepRe.FindStringSubmatch(clean); m != nil {
		step, _ := strconv.Atoi(m[1])
		if pct, ok := stepPcts[step]; ok {
			return pct, true
		}
		return 0, false
	}

	// "Variant X/Y" within the render step interpolates 20-90.
	if m := variantRe.FindStringSubmatch(clean); m != nil {
		v, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		if total < 1 {
			total = 1
		}
		return 20 + 70*(v-1)/total, true
	}

	return 0, false
}
