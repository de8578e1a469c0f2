package port

// Sink is an append-only, line-oriented output stream for captured console
// lines. Lines arrive already prefixed; the sink only transports them.
type Sink interface {
	// WriteLines appends a batch of lines, one per output line.
	WriteLines(lines []string) error
	// Flush makes everything written so far visible downstream.
	Flush() error
}
