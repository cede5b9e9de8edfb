package rpc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Transport-level failure sentinels. Callers discriminate with errors.Is.
var (
	// ErrClosed means the peer went away; the current session is over
	ErrClosed = errors.New("transport closed")
	// ErrWrite means the outgoing stream rejected a frame
	ErrWrite = errors.New("transport write failed")
	// ErrParse means a frame arrived that is not valid JSON
	ErrParse = errors.New("malformed message")
)

// LineCodec frames one JSON envelope per line over a duplex byte stream.
// Reads block until a full line is available. Writes are serialized so a
// server handling a request can reply while a concurrent error reply is
// in flight.
type LineCodec struct {
	r   *bufio.Reader
	w   io.Writer
	wmu sync.Mutex
}

// NewLineCodec wraps the given streams in a line-framed codec
func NewLineCodec(r io.Reader, w io.Writer) *LineCodec {
	return &LineCodec{
		r: bufio.NewReader(r),
		w: w,
	}
}

// WriteRequest serializes and writes one request envelope
func (c *LineCodec) WriteRequest(req *Request) error {
	return c.writeLine(req)
}

// WriteResponse serializes and writes one response envelope
func (c *LineCodec) WriteResponse(resp *Response) error {
	return c.writeLine(resp)
}

// ReadRequest blocks until one full line is available and decodes it as
// a request envelope. End of stream maps to ErrClosed, bad JSON to
// ErrParse; blank lines are skipped.
func (c *LineCodec) ReadRequest() (*Request, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &req, nil
}

// ReadResponse blocks until one full line is available and decodes it as
// a response envelope
func (c *LineCodec) ReadResponse() (*Response, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &resp, nil
}

func (c *LineCodec) readLine() ([]byte, error) {
	for {
		line, err := c.r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil, ErrClosed
			}
			return nil, fmt.Errorf("%w: %v", ErrClosed, err)
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
}

func (c *LineCodec) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	data = append(data, '\n')
	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
