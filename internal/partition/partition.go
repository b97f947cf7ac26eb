// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package partition isolates a Parquet reader — which is not safe for
// concurrent use — onto a dedicated worker goroutine, and exposes it as
// a BatchProducer safe to poll from any caller. The only synchronization
// primitive is the two-channel pull/reply handshake described in spec
// §4.2/§5; there is no lock around the reader itself.
package partition

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// BatchProducer is the pull-based producer contract exposed to the rest
// of the engine (spec §6): a schema plus a sequential next() that
// returns a nil record and nil error once exhausted.
type BatchProducer interface {
	Schema() *arrow.Schema
	// Next returns the next batch, or (nil, nil) when exhausted.
	Next() (arrow.Record, error)
}

// reply is the worker's response to one pull.
type reply struct {
	rec arrow.Record
	err error
	eof bool
}

// Stream wraps an underlying, non-thread-safe batch producer (typically
// a *parquetio.Reader) behind a worker goroutine. Next must be called
// sequentially by a single caller, matching the reader's own contract;
// Stream makes that safe even when the caller and the reader's
// originating goroutine differ.
type Stream struct {
	id       string
	schema   *arrow.Schema
	pullCh   chan struct{}
	replyCh  chan reply
	closed   bool
	gone     bool // true once the worker has terminated (construction error or exit)
	logger   log.Logger
}

// New starts the worker goroutine immediately. open is called on the
// worker goroutine, not the caller's, so it never blocks New.
func New(open func() (Underlying, error), logger log.Logger) *Stream {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Stream{
		id:      uuid.NewString(),
		pullCh:  make(chan struct{}),
		replyCh: make(chan reply),
		logger:  logger,
	}
	go s.run(open)
	return s
}

// Underlying is the minimal non-thread-safe reader contract the worker
// drives: a schema plus a sequential next() that returns (nil, nil)
// once exhausted. It is satisfied by *parquetio.Reader.
type Underlying interface {
	Schema() *arrow.Schema
	Next() (arrow.Record, error)
}

func (s *Stream) run(open func() (Underlying, error)) {
	defer close(s.replyCh)

	reader, err := open()
	if err != nil {
		level.Error(s.logger).Log("worker", s.id, "event", "open_failed", "err", err)
		// Wait for the first pull, then deliver the construction error and stop.
		if _, ok := <-s.pullCh; !ok {
			return
		}
		s.replyCh <- reply{err: engineerr.WrapIO("partition.Stream", err)}
		return
	}
	s.schema = reader.Schema()
	level.Debug(s.logger).Log("worker", s.id, "event", "opened")

	for {
		if _, ok := <-s.pullCh; !ok {
			level.Debug(s.logger).Log("worker", s.id, "event", "pull_channel_closed")
			return
		}
		rec, err := reader.Next()
		if err != nil {
			s.replyCh <- reply{err: err}
			continue
		}
		if rec == nil {
			s.replyCh <- reply{eof: true}
			continue
		}
		s.replyCh <- reply{rec: rec}
	}
}

// Schema returns the underlying reader's schema. Only valid after the
// first successful Next (or immediately if the caller already knows the
// projected schema some other way); returns nil before that.
func (s *Stream) Schema() *arrow.Schema { return s.schema }

// Next sends one pull and blocks for the worker's reply. Pulls and
// replies are strictly FIFO: the Nth pull corresponds to the Nth call to
// the underlying reader's Next.
func (s *Stream) Next() (arrow.Record, error) {
	if s.gone || s.closed {
		return nil, engineerr.Generalf("partition.Stream.Next", "worker %s is gone", s.id)
	}
	s.pullCh <- struct{}{}
	r, ok := <-s.replyCh
	if !ok {
		s.gone = true
		return nil, engineerr.Generalf("partition.Stream.Next", "worker %s exited without a reply", s.id)
	}
	if r.err != nil {
		s.gone = true // a worker that delivered an error does not process further pulls
		return nil, r.err
	}
	if r.eof {
		return nil, nil
	}
	return r.rec, nil
}

// Close cancels the stream: closing the pull channel causes the worker
// to exit on its next receive.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.pullCh)
	return nil
}
