package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ensureServerRunning pings the server and, if it is not answering, starts
// the server binary (expected next to this one) as a background daemon.
func ensureServerRunning() error {
	if serverAlive() {
		return nil
	}

	serverBin, err := findServerBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(serverBin)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	// The server binary daemonizes itself and the launcher exits.
	cmd.Wait()

	// Give it a moment to bind.
	for i := 0; i < 20; i++ {
		if serverAlive() {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready")
}

func serverAlive() bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func findServerBinary() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	candidate := filepath.Join(filepath.Dir(execPath), "pahe-web-server")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	// Fall back to PATH lookup.
	if path, err := exec.LookPath("pahe-web-server"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("pahe-web-server binary not found")
}
