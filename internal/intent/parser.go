package intent

import (
	"log/slog"
	"regexp"
	"strings"
)

// FallbackText replaces replies whose visible text is empty after the
// fenced block is stripped.
const FallbackText = "Here is what I found."

// fencedBlock matches a single ```json fenced block in a reply.
var fencedBlock = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Extract locates the fenced action block in a raw assistant reply and
// returns the classified intent (nil if absent, malformed, or
// unrecognized) along with the text to display: the reply with the block
// removed. Malformed payloads are logged and treated as "no intent";
// a bad block never fails the turn.
func Extract(raw string) (*Intent, string) {
	match := fencedBlock.FindStringSubmatch(raw)
	if match == nil {
		return nil, raw
	}

	display := strings.TrimSpace(fencedBlock.ReplaceAllString(raw, ""))
	if display == "" {
		display = FallbackText
	}

	in, err := classify([]byte(match[1]))
	if err != nil {
		slog.Warn("unparseable action block in reply", "error", err)
		return nil, display
	}
	if in == nil {
		slog.Debug("action block did not match any known shape")
	}
	return in, display
}
