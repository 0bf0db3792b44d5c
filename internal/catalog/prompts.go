package catalog

import "fmt"

// DefaultPrompt returns the seed text prompt used when generating a new
// sample for an instrument in a given genre. Deterministic: the same
// instrument and genre always produce the same prompt.
func DefaultPrompt(instrument, genre string) string {
	switch instrument {
	case "kick":
		return fmt.Sprintf("deep kick drum %s warm", genre)
	case "snare":
		return fmt.Sprintf("snare drum %s crisp", genre)
	case "hihat":
		return fmt.Sprintf("closed hi-hat %s tight", genre)
	case "hihat-open":
		return fmt.Sprintf("open hi-hat %s sizzle", genre)
	case "rimshot":
		return fmt.Sprintf("rimshot %s warm analog", genre)
	case "clap":
		return fmt.Sprintf("handclap %s vintage", genre)
	case "bass":
		return fmt.Sprintf("sustained deep bass note C2 %s", genre)
	case "lead":
		return fmt.Sprintf("sustained synth lead C4 %s", genre)
	case "pad":
		return fmt.Sprintf("sustained ambient pad C4 %s atmospheric", genre)
	case "arp":
		return fmt.Sprintf("arpeggiated synth C4 %s sequenced", genre)
	case "fx":
		return fmt.Sprintf("fx sound effect %s electronic", genre)
	case "subBass":
		return fmt.Sprintf("deep sub bass C1 %s rumble", genre)
	case "vocalChop":
		return fmt.Sprintf("vocal chop pitched C4 %s", genre)
	case "texture":
		return fmt.Sprintf("evolving texture pad %s atmospheric", genre)
	case "noise":
		return fmt.Sprintf("filtered noise sweep %s", genre)
	case "scratch":
		return fmt.Sprintf("dj scratch hit %s", genre)
	case "atmosphere":
		return fmt.Sprintf("ambient drone atmospheric %s evolving", genre)
	case "stab":
		return fmt.Sprintf("chord stab hit C4 %s short", genre)
	default:
		return fmt.Sprintf("%s %s", instrument, genre)
	}
}
