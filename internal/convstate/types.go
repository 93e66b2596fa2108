package convstate

// Mode is the operating mode a conversation has selected.
type Mode string

const (
	ModeUnset Mode = ""
	ModeAudio Mode = "audio"
	ModeVideo Mode = "video"
	// ModeLink returns only the source URL, skipping download entirely.
	ModeLink Mode = "link"
)

// State holds the per-conversation selection. Quality applies to audio,
// Resolution to video; the field not matching Mode may carry a stale value
// from an earlier selection and is never consulted.
type State struct {
	Mode       Mode
	Quality    string
	Resolution string
}

// Param resolves the parameter relevant to the current mode.
func (s State) Param() string {
	switch s.Mode {
	case ModeAudio:
		return s.Quality
	case ModeVideo:
		return s.Resolution
	default:
		return ""
	}
}
