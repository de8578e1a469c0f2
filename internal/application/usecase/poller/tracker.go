package poller

import "strings"

// Marker is the tracker's only poll-to-poll state: the content of the most
// recent non-empty console line observed, plus the number of empty lines
// that followed it in the buffer. Together they encode "everything up to
// this position was already emitted". The Nova API exposes no cursor or
// stable offset, so the line content itself is the only anchor that
// survives between full-buffer dumps.
type Marker struct {
	lastLine      string
	set           bool
	trailingEmpty int
}

// Reset forgets the tracked position. Called whenever the instance is
// observed powered off: a fresh boot invalidates any prior buffer position
// and the next snapshot must be treated as a first poll.
func (m *Marker) Reset() {
	m.lastLine = ""
	m.set = false
	m.trailingEmpty = 0
}

// NewLines returns the lines of the snapshot that appeared since the last
// poll, and whether output continuity was lost. On a first poll (marker
// unset) the whole snapshot is new. Otherwise the snapshot is scanned from
// the end toward the start for the most recent occurrence of the anchor
// line; content may recur earlier in the buffer, the rightmost match is
// the correct resume point. Everything past the anchor and its recorded
// trailing empties is new. If the anchor is absent the buffer wrapped (or
// the instance rebooted between polls): the whole snapshot is returned
// with gap set, and the caller emits a synthetic gap notice first.
func (m *Marker) NewLines(lines []string) (newLines []string, gap bool) {
	if !m.set {
		return lines, false
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] == m.lastLine {
			resume := i + m.trailingEmpty + 1
			if resume >= len(lines) {
				return nil, false
			}
			return lines[resume:], false
		}
	}
	return lines, true
}

// Advance re-anchors the marker on the full current snapshot (not the
// new-lines subset): the rightmost non-empty line becomes the anchor and
// the lines after it the trailing empty count. An all-empty snapshot is
// treated as pure continuation of blank lines when an anchor exists; an
// unset marker stays unset since there is nothing to anchor on.
func (m *Marker) Advance(lines []string) {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			m.lastLine = lines[i]
			m.set = true
			m.trailingEmpty = len(lines) - 1 - i
			return
		}
	}
	if m.set {
		m.trailingEmpty += len(lines)
	}
}

// splitLines splits a raw console buffer into lines, tolerating LF, CRLF
// and bare CR endings. A trailing newline does not produce a final empty
// line, and an empty or newline-only buffer yields no lines at all.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}
