package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// eventBuffer bounds the in-flight event channel. A consumer that reads
// slower than the script writes exerts backpressure on the pumps here
// instead of growing an unbounded buffer.
const eventBuffer = 64

// stderrChunkSize is the read size for the stderr pump. stderr is emitted
// per raw chunk, not per line, so a chunk may carry a partial line.
const stderrChunkSize = 4096

// ScriptRunner invokes the external downloader script. It implements both
// domain.ScriptLauncher (streaming download mode) and domain.SearchRunner
// (buffered search-only mode).
type ScriptRunner struct {
	config  *domain.ScriptConfig
	logsDir string
	logger  *zap.Logger
}

// NewScriptRunner creates a new script runner
func NewScriptRunner(config *domain.ScriptConfig, logsDir string, logger *zap.Logger) *ScriptRunner {
	return &ScriptRunner{
		config:  config,
		logsDir: logsDir,
		logger:  logger,
	}
}

// command builds the exec.Cmd for a script invocation. Arguments stay a
// discrete argv vector end to end; nothing is routed through a shell.
func (r *ScriptRunner) command(args []string) *exec.Cmd {
	argv := append([]string{r.config.Path}, args...)
	return exec.Command(r.config.Interpreter, argv...)
}

// Start launches the script in download mode and begins pumping its output
// into an event channel.
func (r *ScriptRunner) Start(args []string) (domain.ScriptProcess, error) {
	cmd := r.command(args)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSpawn, err)
	}

	// Raw output also goes to a dated log file, independent of the HTTP
	// stream. Best-effort: a missing logs dir doesn't block the run.
	logFile, err := r.openLogFile()
	if err != nil {
		r.logger.Warn("Script log unavailable", zap.Error(err))
		logFile = nil
	}

	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSpawn, err)
	}

	if logFile != nil {
		writeLogHeader(logFile, ShellEscapeCommand(r.config.Interpreter, append([]string{r.config.Path}, args...)...))
	}

	r.logger.Info("Script started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args))

	p := &scriptProcess{
		cmd:     cmd,
		events:  make(chan domain.StreamEvent, eventBuffer),
		logFile: logFile,
		logger:  r.logger,
	}
	go p.pump(stdout, stderr)

	return p, nil
}

// Search runs the script in search-only mode and buffers all output until
// exit. The context covers the full process lifetime; cancelling it kills
// the process.
func (r *ScriptRunner) Search(ctx context.Context, query string) ([]byte, []byte, error) {
	argv := append([]string{r.config.Path}, domain.SearchArgs(query)...)
	cmd := exec.CommandContext(ctx, r.config.Interpreter, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Info("Search started", zap.String("query", query))

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%w: %v", domain.ErrScriptFailed, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSpawn, err)
	}

	return stdout.Bytes(), stderr.Bytes(), nil
}

// scriptProcess implements domain.ScriptProcess for a live invocation
type scriptProcess struct {
	cmd     *exec.Cmd
	events  chan domain.StreamEvent
	killed  atomic.Bool
	logFile *os.File
	logMu   sync.Mutex
	logger  *zap.Logger
}

// Events returns the event channel for this run
func (p *scriptProcess) Events() <-chan domain.StreamEvent {
	return p.events
}

// Kill terminates the process immediately. Marking the run killed before
// signalling guarantees the pump never emits a complete event afterwards.
func (p *scriptProcess) Kill() error {
	p.killed.Store(true)
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil {
		// Already exited; the slot owner treats this as a no-op.
		p.logger.Debug("Kill on finished process", zap.Error(err))
		return nil
	}
	return nil
}

// pump drains both output pipes, waits for exit and closes the event
// channel. Exactly one complete event is emitted per natural exit; a killed
// run gets none.
func (p *scriptProcess) pump(stdout, stderr io.Reader) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.pumpStdout(stdout)
	}()
	go func() {
		defer wg.Done()
		p.pumpStderr(stderr)
	}()
	wg.Wait()

	err := p.cmd.Wait()
	success := err == nil

	if p.logFile != nil {
		writeLogFooter(p.logFile, success)
		p.logFile.Close()
	}

	if !p.killed.Load() {
		p.events <- domain.NewCompleteEvent(success)
		p.logger.Info("Script exited", zap.Bool("success", success))
	} else {
		p.logger.Info("Script killed")
	}

	close(p.events)
}

// pumpStdout splits stdout on line boundaries, buffering partial lines
// across reads, and emits one trimmed info event per non-blank line.
func (p *scriptProcess) pumpStdout(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.appendLog(scanner.Bytes())
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p.events <- domain.NewInfoEvent(line)
	}
}

// pumpStderr emits each raw chunk as one trimmed error event. Unlike
// stdout, stderr is not reassembled into lines, so a chunk may be a
// sub-line fragment.
func (p *scriptProcess) pumpStderr(stderr io.Reader) {
	buf := make([]byte, stderrChunkSize)
	for {
		n, err := stderr.Read(buf)
		if n > 0 {
			p.appendLog(buf[:n])
			msg := strings.TrimSpace(string(buf[:n]))
			if msg != "" {
				p.events <- domain.NewErrorEvent(msg)
			}
		}
		if err != nil {
			return
		}
	}
}

// appendLog tees raw output to the script log file
func (p *scriptProcess) appendLog(chunk []byte) {
	if p.logFile == nil {
		return
	}
	p.logMu.Lock()
	defer p.logMu.Unlock()
	p.logFile.Write(chunk)
	if len(chunk) > 0 && chunk[len(chunk)-1] != '\n' {
		p.logFile.WriteString("\n")
	}
}

// openLogFile opens the dated script log file for appending
func (r *ScriptRunner) openLogFile() (*os.File, error) {
	if r.logsDir == "" {
		return nil, fmt.Errorf("logs directory not configured")
	}
	if err := os.MkdirAll(r.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	dateStr := time.Now().Format("20060102")
	path := filepath.Join(r.logsDir, "script-"+dateStr+".log")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the run start marker with the escaped command line
func writeLogHeader(file *os.File, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	file.WriteString(fmt.Sprintf("\n=== [%s] Run ===\n", timestamp))
	file.WriteString(fmt.Sprintf("$ %s\n", cmdLine))
}

// writeLogFooter writes the run end marker
func writeLogFooter(file *os.File, success bool) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	file.WriteString(fmt.Sprintf("[%s] %s\n=== END ===\n\n", timestamp, status))
}
