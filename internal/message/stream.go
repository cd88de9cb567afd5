package message

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// maxLineSize bounds one newline-delimited message.
const maxLineSize = 1 << 20

// ServeLines reads one JSON message per line from r and writes one JSON
// response per line to w until r is exhausted or ctx is cancelled. Blank lines
// are ignored.
func ServeLines(ctx context.Context, h *Handler, r io.Reader, w io.Writer, logger *log.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	handled := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		resp := h.Handle(ctx, line)
		if e, ok := resp.(ErrorResponse); ok && logger != nil {
			logger.Printf("message %d: %s", handled+1, e.Error)
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		handled++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	if logger != nil {
		logger.Printf("input closed after %d message(s)", handled)
	}
	return nil
}
