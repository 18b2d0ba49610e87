package stderr

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// Messages receives stderr lines captured from C libraries.
var Messages = make(chan string, 100)

// forward reads lines from r until EOF, logging each non-empty one and
// offering it to out without blocking.
func forward(r io.Reader, log *slog.Logger, out chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if log != nil {
			log.Warn("captured stderr", "line", line)
		}
		select {
		case out <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}
