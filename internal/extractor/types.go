package extractor

import "github.com/cloudsongbot/cloudsong/internal/convstate"

// DefaultTitle is used when the backend omits a title.
const DefaultTitle = "Song"

const (
	DefaultAudioQuality = "192"
	DefaultVideoHeight  = "720"
)

// Request describes one search-and-fetch operation. It is built fresh per
// inbound message and never reused.
type Request struct {
	Query string
	Mode  convstate.Mode
	// Param is the bitrate for audio or the height cap for video, resolved
	// from conversation state at dispatch time. Empty falls back to the
	// mode default.
	Param string
}

// Result is the outcome of a successful fetch. FilePath is empty in link
// mode, SourceURL may be empty when the backend does not report one.
type Result struct {
	FilePath  string
	Title     string
	SourceURL string
}
