package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "pahe",
		Short: "pahe-web CLI - search and download anime via the pahe-web server",
		Long:  `A command-line client for the pahe-web server, which fronts the pahe-dl downloader script.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	downloadCmd.Flags().Int("start", 1, "Start episode")
	downloadCmd.Flags().Int("end", 0, "End episode (0 = all available)")
	downloadCmd.Flags().Int("quality", 1080, "Preferred quality (360, 480, 720, 1080)")
	downloadCmd.Flags().Bool("dub", false, "Prefer dubbed version")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for an anime title",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		payload := map[string]string{"query": joinArgs(args)}
		data, _ := json.Marshal(payload)
		resp, err := http.Post(serverURL+"/search", "application/json", bytes.NewBuffer(data))
		if err != nil {
			fatal("Error: %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			Success bool              `json:"success"`
			Results map[string]string `json:"results"`
			Error   string            `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			fatal("Error: %v", err)
		}
		if !result.Success {
			fatal("Search failed: %s", result.Error)
		}

		if len(result.Results) == 0 {
			fmt.Println("No results found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tSESSION")
		for title, session := range result.Results {
			fmt.Fprintf(w, "%s\t%s\n", title, session)
		}
		w.Flush()
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [title]",
	Short: "Download episodes and stream progress to the terminal",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		start, _ := cmd.Flags().GetInt("start")
		end, _ := cmd.Flags().GetInt("end")
		quality, _ := cmd.Flags().GetInt("quality")
		dub, _ := cmd.Flags().GetBool("dub")

		payload := map[string]interface{}{
			"anime": map[string]string{"title": joinArgs(args)},
			"settings": map[string]interface{}{
				"startEpisode": start,
				"quality":      quality,
				"preferDub":    dub,
			},
		}
		if end > 0 {
			payload["settings"].(map[string]interface{})["endEpisode"] = end
		}

		data, _ := json.Marshal(payload)
		resp, err := http.Post(serverURL+"/download", "application/json", bytes.NewBuffer(data))
		if err != nil {
			fatal("Error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fatal("Download refused: %s", string(body))
		}

		// The response body is a stream of newline-delimited JSON events.
		sawComplete := false
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var ev struct {
				Type string `json:"type"`
				Log  *struct {
					Type    string `json:"type"`
					Message string `json:"message"`
				} `json:"log"`
				Success *bool `json:"success"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
				continue
			}
			switch ev.Type {
			case "log":
				if ev.Log == nil {
					continue
				}
				if ev.Log.Type == "error" {
					fmt.Fprintf(os.Stderr, "! %s\n", ev.Log.Message)
				} else {
					fmt.Println(ev.Log.Message)
				}
			case "complete":
				sawComplete = true
				if ev.Success != nil && *ev.Success {
					fmt.Println("Download completed")
				} else {
					fatal("Download failed")
				}
			}
		}
		if !sawComplete {
			fmt.Println("Download cancelled")
		}
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active download",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Post(serverURL+"/download/cancel", "application/json", nil)
		if err != nil {
			fatal("Error: %v", err)
		}
		defer resp.Body.Close()
		fmt.Println("Cancel requested")
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List download history",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		resp, err := http.Get(serverURL + "/downloads")
		if err != nil {
			fatal("Error: %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			Downloads []struct {
				ID           string `json:"id"`
				Title        string `json:"title"`
				StartEpisode int    `json:"start_episode"`
				EndEpisode   int    `json:"end_episode"`
				Quality      int    `json:"quality"`
				Status       string `json:"status"`
				CreatedAt    string `json:"created_at"`
			} `json:"downloads"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			fatal("Error: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tEPISODES\tQUALITY\tSTATUS\tCREATED")
		for _, d := range result.Downloads {
			episodes := fmt.Sprintf("%d+", d.StartEpisode)
			if d.EndEpisode > 0 {
				episodes = fmt.Sprintf("%d-%d", d.StartEpisode, d.EndEpisode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%dp\t%s\t%s\n",
				truncate(d.ID, 8),
				truncate(d.Title, 40),
				episodes,
				d.Quality,
				d.Status,
				d.CreatedAt)
		}
		w.Flush()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/health")
		if err != nil {
			fatal("Server not reachable: %v", err)
		}
		defer resp.Body.Close()

		var health struct {
			Status   string `json:"status"`
			Version  string `json:"version"`
			Download struct {
				Active bool `json:"active"`
			} `json:"download"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			fatal("Error: %v", err)
		}

		fmt.Printf("Server:          %s (%s)\n", health.Status, health.Version)
		fmt.Printf("Active download: %v\n", health.Download.Active)
	},
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
