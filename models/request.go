package models

import "strings"

// NormalizeURL prefixes https:// when the input carries no scheme.
// Inputs already starting with http:// or https:// pass through unchanged.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// CleanURLList trims whitespace and drops empty entries, preserving order.
// This is the shape of the ?u= query parameters after gin collects them.
func CleanURLList(raw []string) []string {
	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
