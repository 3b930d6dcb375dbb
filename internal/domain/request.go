package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is the preferred video quality in vertical pixels
type Quality int

const (
	Quality360  Quality = 360
	Quality480  Quality = 480
	Quality720  Quality = 720
	Quality1080 Quality = 1080
)

// Valid reports whether the quality is one of the supported values
func (q Quality) Valid() bool {
	switch q {
	case Quality360, Quality480, Quality720, Quality1080:
		return true
	default:
		return false
	}
}

// DownloadRequest describes one requested script run. It is built once from
// the caller's payload and consumed once to produce an argument vector.
type DownloadRequest struct {
	Title        string
	StartEpisode int
	EndEpisode   int // 0 means "to the last available episode"
	Quality      Quality
	PreferDub    bool
	OutputDir    string // optional override of the configured output dir
}

// Validate checks the request before any process is spawned
func (r *DownloadRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("anime title is required")
	}
	if r.StartEpisode < 1 {
		return fmt.Errorf("start episode must be >= 1, got %d", r.StartEpisode)
	}
	if r.EndEpisode != 0 && r.EndEpisode < r.StartEpisode {
		return fmt.Errorf("end episode %d is before start episode %d", r.EndEpisode, r.StartEpisode)
	}
	if !r.Quality.Valid() {
		return fmt.Errorf("unsupported quality: %d", r.Quality)
	}
	return nil
}

// Args builds the script argument vector for a download run. Values are kept
// as discrete argv entries; they are never joined into a shell string.
func (r *DownloadRequest) Args(defaultOutputDir string) []string {
	args := []string{
		"-n", r.Title,
		"-s", strconv.Itoa(r.StartEpisode),
		"-q", strconv.Itoa(int(r.Quality)),
	}
	if r.EndEpisode > 0 {
		args = append(args, "-e", strconv.Itoa(r.EndEpisode))
	}
	dir := r.OutputDir
	if dir == "" {
		dir = defaultOutputDir
	}
	if dir != "" {
		args = append(args, "-d", dir)
	}
	if r.PreferDub {
		args = append(args, "--dub")
	}
	return args
}

// SearchArgs builds the script argument vector for a search-only run
func SearchArgs(query string) []string {
	return []string{"-n", query, "--search-only"}
}
