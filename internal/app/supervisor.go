package app

import (
	"sync"

	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// Supervisor owns the single global download slot. At most one external
// script process is live at any time, regardless of how many HTTP requests
// arrive concurrently. There is no queueing: a second concurrent start
// attempt fails fast with domain.ErrDownloadActive.
type Supervisor struct {
	launcher  domain.ScriptLauncher
	outputDir string
	logger    *zap.Logger

	mu     sync.Mutex
	busy   bool                 // claimed eagerly, before the process is spawned
	active domain.ScriptProcess // set once the spawn succeeded
}

// NewSupervisor creates a new supervisor
func NewSupervisor(launcher domain.ScriptLauncher, outputDir string, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		launcher:  launcher,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Start claims the global slot and launches the script for the given
// request. The slot is claimed before the spawn so two concurrent callers
// can never both observe "not running"; it is released only after the
// process exit (or kill) has been fully observed.
func (s *Supervisor) Start(req *domain.DownloadRequest) (<-chan domain.StreamEvent, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrDownloadActive
	}
	s.busy = true
	s.mu.Unlock()

	proc, err := s.launcher.Start(req.Args(s.outputDir))
	if err != nil {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.logger.Error("Failed to launch script", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.active = proc
	s.mu.Unlock()

	s.logger.Info("Download started",
		zap.String("title", req.Title),
		zap.Int("start", req.StartEpisode),
		zap.Int("end", req.EndEpisode),
		zap.Int("quality", int(req.Quality)),
		zap.Bool("dub", req.PreferDub))

	out := make(chan domain.StreamEvent)
	go s.forward(proc, out)

	return out, nil
}

// forward relays events until the process channel closes, then releases the
// slot. Releasing here, after the channel close, guarantees the slot stays
// occupied until exit/kill is fully observed.
func (s *Supervisor) forward(proc domain.ScriptProcess, out chan<- domain.StreamEvent) {
	for ev := range proc.Events() {
		out <- ev
	}

	s.mu.Lock()
	s.active = nil
	s.busy = false
	s.mu.Unlock()

	close(out)
}

// Cancel kills the live process, if any. Idempotent: cancelling when
// nothing runs is a no-op. The cancel is global; with concurrent users it
// kills whichever run holds the slot (known limitation of the API contract).
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	proc := s.active
	s.mu.Unlock()

	if proc == nil {
		return
	}

	s.logger.Info("Cancelling active download")
	if err := proc.Kill(); err != nil {
		s.logger.Warn("Failed to kill script process", zap.Error(err))
	}
}

// Active reports whether the slot is currently occupied
func (s *Supervisor) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
