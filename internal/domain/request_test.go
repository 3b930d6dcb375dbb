package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     DownloadRequest
		wantErr string
	}{
		{
			name: "valid minimal",
			req:  DownloadRequest{Title: "One Piece", StartEpisode: 1, Quality: Quality1080},
		},
		{
			name: "valid with range",
			req:  DownloadRequest{Title: "Naruto", StartEpisode: 5, EndEpisode: 10, Quality: Quality720},
		},
		{
			name:    "missing title",
			req:     DownloadRequest{StartEpisode: 1, Quality: Quality1080},
			wantErr: "title is required",
		},
		{
			name:    "whitespace title",
			req:     DownloadRequest{Title: "   ", StartEpisode: 1, Quality: Quality1080},
			wantErr: "title is required",
		},
		{
			name:    "zero start episode",
			req:     DownloadRequest{Title: "Bleach", StartEpisode: 0, Quality: Quality1080},
			wantErr: "start episode",
		},
		{
			name:    "end before start",
			req:     DownloadRequest{Title: "Bleach", StartEpisode: 10, EndEpisode: 3, Quality: Quality1080},
			wantErr: "before start episode",
		},
		{
			name:    "unsupported quality",
			req:     DownloadRequest{Title: "Bleach", StartEpisode: 1, Quality: 144},
			wantErr: "unsupported quality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDownloadRequest_Args(t *testing.T) {
	req := DownloadRequest{
		Title:        "One Piece",
		StartEpisode: 1,
		Quality:      Quality1080,
	}
	args := req.Args("/tmp/out")
	assert.Equal(t, []string{"-n", "One Piece", "-s", "1", "-q", "1080", "-d", "/tmp/out"}, args)
}

func TestDownloadRequest_Args_FullOptions(t *testing.T) {
	req := DownloadRequest{
		Title:        "Naruto",
		StartEpisode: 5,
		EndEpisode:   12,
		Quality:      Quality720,
		PreferDub:    true,
		OutputDir:    "/custom",
	}
	args := req.Args("/default")
	assert.Equal(t, []string{"-n", "Naruto", "-s", "5", "-q", "720", "-e", "12", "-d", "/custom", "--dub"}, args)
}

func TestDownloadRequest_Args_TitleStaysDiscrete(t *testing.T) {
	// A hostile title must remain a single argv entry, never shell-joined.
	req := DownloadRequest{
		Title:        `Evil"; rm -rf /; echo "`,
		StartEpisode: 1,
		Quality:      Quality480,
	}
	args := req.Args("")
	require.Equal(t, "-n", args[0])
	assert.Equal(t, `Evil"; rm -rf /; echo "`, args[1])
}

func TestSearchArgs(t *testing.T) {
	assert.Equal(t, []string{"-n", "Naruto", "--search-only"}, SearchArgs("Naruto"))
}

func TestQuality_Valid(t *testing.T) {
	for _, q := range []Quality{Quality360, Quality480, Quality720, Quality1080} {
		assert.True(t, q.Valid(), "quality %d", q)
	}
	for _, q := range []Quality{0, 144, 240, 2160} {
		assert.False(t, Quality(q).Valid(), "quality %d", q)
	}
}
