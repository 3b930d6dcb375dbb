package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// SearchService runs the script in search-only mode and decodes its result
// mapping.
type SearchService struct {
	runner domain.SearchRunner
	logger *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(runner domain.SearchRunner, logger *zap.Logger) *SearchService {
	return &SearchService{
		runner: runner,
		logger: logger,
	}
}

// Search runs a search-only invocation and returns the title to session-id
// mapping. A blank query is rejected before any process is spawned.
func (s *SearchService) Search(ctx context.Context, query string) (map[string]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	stdout, stderr, err := s.runner.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrScriptFailed) {
			// Prefer the script's own stderr text when it said anything.
			if msg := strings.TrimSpace(string(stderr)); msg != "" {
				s.logger.Warn("Search script failed", zap.String("stderr", msg))
				return nil, fmt.Errorf("%w: %s", domain.ErrScriptFailed, msg)
			}
		}
		s.logger.Error("Search invocation failed", zap.Error(err))
		return nil, err
	}

	var results map[string]string
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &results); err != nil {
		s.logger.Warn("Search output was not valid JSON",
			zap.String("query", query),
			zap.Error(err))
		return nil, domain.ErrResultParse
	}

	s.logger.Info("Search finished",
		zap.String("query", query),
		zap.Int("results", len(results)))

	return results, nil
}
