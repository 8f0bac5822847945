package services

import "strings"

// thinkingIndicators are request phrasings that usually need exploration
// before a single command can answer: ambiguous file references,
// analysis/comparison wording, and system-inspection phrasing.
var thinkingIndicators = []string{
	// File operations with ambiguous references
	"this file", "that file", "the file", "these files", "those files",
	"the folder", "this folder", "that folder", "this directory",

	// Analysis requests
	"what is in", "what's in", "show me", "tell me about", "analyze",
	"summarize", "summary of", "what does", "how big", "how many",

	// Ambiguous file references
	"matrix file", "config file", "log file", "data file", "script file",
	"python file", "text file", "json file", "csv file",

	// Delete/modify with ambiguous references
	"delete this", "remove this", "delete the", "remove the",
	"edit this", "modify this", "change this",

	// Search and exploration
	"find", "search for", "look for", "where is", "which file",

	// Comparative operations
	"largest file", "smallest file", "newest file", "oldest file",
	"most recent", "latest", "biggest", "smallest",

	// Status and inspection
	"what's taking up space", "disk usage", "memory usage",
	"running processes", "active connections", "system status",
}

// needsThinking reports whether the request should enter the exploration
// state machine instead of the direct single-command path.
func needsThinking(input string) bool {
	lower := strings.ToLower(input)
	for _, indicator := range thinkingIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
