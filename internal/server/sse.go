package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// doneMarker terminates an event stream.
const doneMarker = "[DONE]"

// Frame is the JSON payload of one event-stream data line.
type Frame struct {
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Route   string `json:"route,omitempty"`
	Outcome any    `json:"outcome,omitempty"`
}

// writeFrame writes one data frame and flushes it to the client.
func writeFrame(w *bufio.Writer, f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	return w.Flush()
}

func writeDone(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", doneMarker); err != nil {
		return err
	}
	return w.Flush()
}

// ReadFrames parses an event stream, calling onFrame for each JSON data
// frame until the done marker or EOF. Lines that are not data lines and
// data that is not JSON are skipped.
func ReadFrames(r io.Reader, onFrame func(Frame) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		data, ok := strings.CutPrefix(sc.Text(), "data: ")
		if !ok {
			continue
		}
		if data == doneMarker {
			return nil
		}
		var f Frame
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			continue
		}
		if err := onFrame(f); err != nil {
			return err
		}
	}
	return sc.Err()
}

// CollectText reads an event stream and returns the concatenated text
// and the first error frame, if any.
func CollectText(r io.Reader) (text string, streamErr string, err error) {
	var b strings.Builder
	err = ReadFrames(r, func(f Frame) error {
		b.WriteString(f.Text)
		if f.Error != "" && streamErr == "" {
			streamErr = f.Error
		}
		return nil
	})
	return b.String(), streamErr, err
}
