package notes

var pitchClassColors = map[string]string{
	"C":  "#FFCCCC",
	"Db": "#FFB399",
	"D":  "#FFCC99",
	"Eb": "#FFD699",
	"E":  "#FFFF99",
	"F":  "#CCFF99",
	"Gb": "#99FF99",
	"G":  "#99FFFF",
	"Ab": "#99CCFF",
	"A":  "#9999FF",
	"Bb": "#CC99FF",
	"B":  "#FF99CC",
}

// DefaultColor is used before any note has been pressed.
const DefaultColor = "#FFFFFF"

// Color returns the feedback colour for the pitch class of pitch.
func Color(pitch int) string {
	if c, ok := pitchClassColors[PitchClass(pitch)]; ok {
		return c
	}
	return DefaultColor
}
