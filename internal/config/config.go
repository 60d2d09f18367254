package config

// Config carries the command-line settings shared by the pipeline stages.
type Config struct {
	StoryPath       string
	OutputVideo     string
	Width           int
	Height          int
	FPS             int
	Workers         int
	EffectsDuration float64
	DPI             int
	Preset          string
	VideoEncoder    string
	Quality         int
	EndCardLink     string
	EndCardDuration float64
	NotifyEmail     string
	ShowStats       bool
	BuildVersion    string
}

// Direction is the edge a sidebar or intro animation comes from.
type Direction string

const (
	DirLeft   Direction = "left"
	DirRight  Direction = "right"
	DirTop    Direction = "top"
	DirBottom Direction = "bottom"
)

// ParseDirection normalizes a scene's text_direction field. Empty and
// unknown values fall back to left, the original pipeline's default.
func ParseDirection(s string) Direction {
	switch Direction(s) {
	case DirLeft, DirRight, DirTop, DirBottom:
		return Direction(s)
	}
	return DirLeft
}
