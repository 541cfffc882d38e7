// ratescope-mcp exposes the ratescope HTTP API as MCP tools over stdio.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// streamEvent mirrors the union of the stream's data payloads.
type streamEvent struct {
	SessionID string      `json:"session_id"`
	Total     int         `json:"total"`
	Rows      [][2]string `json:"rows"`

	Index   int               `json:"index"`
	URL     string            `json:"url"`
	Data    map[string]string `json:"data"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
}

// sessionResponse mirrors the ratescope session debug API response.
type sessionResponse struct {
	URLs    []string            `json:"urls"`
	Results []map[string]string `json:"results"`
}

func main() {
	apiURL := os.Getenv("RATESCOPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("RATESCOPE_API_KEY")

	s := server.NewMCPServer(
		"ratescope",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	analyzeTool := mcp.NewTool("analyze_sites",
		mcp.WithDescription("Submit one or more website URLs to the RateMySite rating service and return the parsed scores (overall, audience, technical criteria). Each URL is analyzed in a fresh headless browser; expect roughly a minute per URL."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of website URLs to analyze"),
		),
		mcp.WithBoolean("include_debug",
			mcp.Description("Include the per-URL debug log for failed analyses (default: false)"),
		),
	)
	s.AddTool(analyzeTool, handleAnalyzeSites(apiURL, apiKey))

	sessionTool := mcp.NewTool("get_session",
		mcp.WithDescription("Fetch the cached results of a previous analyze_sites run by its session ID."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID returned by analyze_sites"),
		),
	)
	s.AddTool(sessionTool, handleGetSession(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleAnalyzeSites(apiURL, apiKey string) server.ToolHandlerFunc {
	// One browser-driven minute per URL adds up; no client-side timeout,
	// the stream itself bounds every wait.
	client := &http.Client{}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}
		includeDebug := request.GetBool("include_debug", false)

		q := url.Values{}
		for _, u := range urls {
			q.Add("u", u)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			apiURL+"/stream?"+q.Encode(), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Accept", "text/event-stream")
		if apiKey != "" {
			httpReq.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return mcp.NewToolResultError(fmt.Sprintf("API returned %d: %s", resp.StatusCode, body)), nil
		}

		summary, err := consumeStream(resp.Body, includeDebug)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading stream failed: %v", err)), nil
		}
		return mcp.NewToolResultText(summary), nil
	}
}

// consumeStream reads SSE records until the done event and formats the
// collected results as readable text.
func consumeStream(r io.Reader, includeDebug bool) (string, error) {
	var (
		sessionID string
		rows      [][2]string
		results   []streamEvent
		debugLogs = make(map[int][]string)
		eventName string
		done      bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventName = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var ev streamEvent
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				continue
			}
			switch eventName {
			case "init":
				sessionID = ev.SessionID
				rows = ev.Rows
			case "debug":
				debugLogs[ev.Index] = append(debugLogs[ev.Index], ev.Message)
			case "result":
				results = append(results, ev)
			case "done":
				done = true
			}
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	for _, res := range results {
		fmt.Fprintf(&b, "\n[%d] %s\n", res.Index, res.URL)
		if res.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", res.Error)
			if includeDebug {
				for _, msg := range debugLogs[res.Index] {
					fmt.Fprintf(&b, "  debug: %s\n", msg)
				}
			}
			continue
		}
		for _, row := range rows {
			if v, ok := res.Data[row[0]]; ok {
				fmt.Fprintf(&b, "  %s: %s\n", row[1], v)
			}
		}
	}
	if !done {
		b.WriteString("\n(stream ended before done event)\n")
	}
	return b.String(), nil
}

func handleGetSession(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError("session_id is required"), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			apiURL+"/api/v1/cache/"+url.PathEscape(sessionID), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		if apiKey != "" {
			httpReq.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}
		if resp.StatusCode != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("API returned %d: %s", resp.StatusCode, body)), nil
		}

		var sess sessionResponse
		if err := json.Unmarshal(body, &sess); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		pretty, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(pretty)), nil
	}
}
