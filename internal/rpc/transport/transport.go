package transport

import "io"

// Transport is a duplex byte channel to a tool host. The reference
// implementation spawns a subprocess and speaks over its stdio, but any
// pair of streams that frames one message per line will do.
type Transport interface {
	// Reader returns the stream carrying host output
	Reader() io.ReadCloser

	// Writer returns the stream carrying host input
	Writer() io.WriteCloser

	// Start opens the channel (spawns the process for stdio)
	Start() error

	// Close tears the channel down and releases all resources
	Close() error
}
