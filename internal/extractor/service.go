package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudsongbot/cloudsong/internal/convstate"
)

// Options configure the extraction service.
type Options struct {
	// ScratchDir holds transient artifacts; created if absent.
	ScratchDir string
	// CookiesFile is an optional site-credential file for the backend.
	CookiesFile string
	// Timeout bounds one search-and-fetch call. Expiry maps to
	// ErrBackendFailure.
	Timeout time.Duration
}

// Service drives the yt-dlp backend: it builds a per-call extraction
// profile, runs the blocking search-and-download, normalizes the artifact
// extension, and maps failures onto the package error taxonomy.
type Service struct {
	logger *slog.Logger
	runner Runner
	opts   Options
	newID  func() string
}

func NewService(log *slog.Logger, runner Runner, opts Options) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	if opts.ScratchDir == "" {
		opts.ScratchDir = "downloads"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Service{
		logger: log.With(slog.String("service", "extractor")),
		runner: runner,
		opts:   opts,
		newID:  uuid.NewString,
	}, nil
}

// backendInfo is the subset of the yt-dlp info JSON the service consumes.
type backendInfo struct {
	Title      string `json:"title"`
	WebpageURL string `json:"webpage_url"`
	Ext        string `json:"ext"`
}

// Fetch runs one search-and-fetch operation against the first search result
// only. On success the returned path exists and carries the extension implied
// by the mode; on any failure no partial artifact is left behind.
func (s *Service) Fetch(ctx context.Context, req Request) (Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Result{}, fmt.Errorf("query is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	id := s.newID()
	args := s.buildArgs(req, query, id)

	start := time.Now()
	out, err := s.runner.Run(ctx, args...)
	if err != nil {
		s.cleanup(id)
		if isTimeout(ctx, err) {
			s.logger.Warn("fetch timed out", slog.String("query", query), slog.Duration("elapsed", time.Since(start)))
			return Result{}, fmt.Errorf("%w: timed out", ErrBackendFailure)
		}
		if isNoResultsOutput(err) {
			return Result{}, ErrNoResults
		}
		s.logger.Error("backend failed", slog.String("query", query), slog.Any("error", err))
		return Result{}, fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}

	info, ok := parseInfo(out)
	if !ok {
		// Empty output on a clean exit: the search matched nothing.
		s.cleanup(id)
		return Result{}, ErrNoResults
	}

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = DefaultTitle
	}

	if req.Mode == convstate.ModeLink {
		return Result{Title: title, SourceURL: info.WebpageURL}, nil
	}

	path, err := s.locateArtifact(id, req.Mode)
	if err != nil {
		s.cleanup(id)
		return Result{}, err
	}

	s.logger.Info("fetch complete",
		slog.String("title", title),
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)),
	)
	return Result{FilePath: path, Title: title, SourceURL: info.WebpageURL}, nil
}

func (s *Service) buildArgs(req Request, query, id string) []string {
	outputTemplate := filepath.Join(s.opts.ScratchDir, id+".%(ext)s")
	args := []string{
		"--no-playlist",
		"--quiet",
		"--print-json",
		"--output", outputTemplate,
	}
	if s.opts.CookiesFile != "" {
		args = append(args, "--cookies", s.opts.CookiesFile)
	}
	switch req.Mode {
	case convstate.ModeAudio:
		quality := req.Param
		if quality == "" {
			quality = DefaultAudioQuality
		}
		args = append(args,
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", quality+"K",
		)
	case convstate.ModeVideo:
		height := req.Param
		if height == "" {
			height = DefaultVideoHeight
		}
		args = append(args,
			"--format", fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", height, height),
			"--merge-output-format", "mp4",
		)
	case convstate.ModeLink:
		args = append(args, "--skip-download")
	}
	// First matching result only: deterministic and fast at the cost of
	// result choice.
	return append(args, "ytsearch1:"+query)
}

// locateArtifact finds the downloaded file and normalizes its extension to
// the mode's canonical container by rename, never re-encode.
func (s *Service) locateArtifact(id string, mode convstate.Mode) (string, error) {
	expected := filepath.Join(s.opts.ScratchDir, id+"."+canonicalExt(mode))
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}
	matches, err := filepath.Glob(filepath.Join(s.opts.ScratchDir, id+".*"))
	if err != nil || len(matches) == 0 {
		s.logger.Error("artifact absent after reported success", slog.String("id", id))
		return "", ErrFileMissing
	}
	if err := os.Rename(matches[0], expected); err != nil {
		return "", fmt.Errorf("%w: normalize extension: %v", ErrBackendFailure, err)
	}
	return expected, nil
}

func (s *Service) cleanup(id string) {
	matches, err := filepath.Glob(filepath.Join(s.opts.ScratchDir, id+".*"))
	if err != nil {
		return
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove partial artifact failed", slog.String("path", match), slog.Any("error", err))
		}
	}
}

func canonicalExt(mode convstate.Mode) string {
	if mode == convstate.ModeVideo {
		return "mp4"
	}
	return "mp3"
}

// parseInfo extracts the first JSON object from backend stdout. yt-dlp
// prints one info dict per downloaded entry; with ytsearch1 there is at
// most one.
func parseInfo(out []byte) (backendInfo, bool) {
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info backendInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			continue
		}
		return info, true
	}
	return backendInfo{}, false
}
