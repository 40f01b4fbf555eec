package quill

import "context"

// Result is a single-pass, forward-only sequence of binary Ion documents.
//
// A Result returned by Executor.Execute streams pages lazily and is bound
// to the transaction that produced it: it becomes invalid the moment that
// transaction commits or aborts. Iterate it inside the work function, or
// return it directly from the work function to receive a BufferedResult
// instead (see Session.Execute).
type Result interface {
	// Next advances to the next document. Returns false when the stream is
	// exhausted or an error occurred; check Err afterwards.
	Next(ctx context.Context) bool

	// GetCurrentData returns the binary Ion document Next advanced to, or
	// nil before the first Next / after exhaustion.
	GetCurrentData() []byte

	// Err returns the error that stopped iteration, if any.
	Err() error
}

// stream is the live page-fetching Result implementation.
type stream struct {
	channel Channel
	txnID   string
	page    *Page
	index   int
	current []byte
	err     error
	done    bool
}

func newStream(channel Channel, txnID string, first *Page) *stream {
	return &stream{channel: channel, txnID: txnID, page: first}
}

func (s *stream) Next(ctx context.Context) bool {
	s.current = nil
	for {
		if s.err != nil || s.done {
			return false
		}
		if s.index < len(s.page.Values) {
			s.current = s.page.Values[s.index]
			s.index++
			return true
		}
		if s.page.NextPageToken == nil {
			s.done = true
			return false
		}
		next, err := s.channel.FetchPage(ctx, s.txnID, *s.page.NextPageToken)
		if err != nil {
			s.err = err
			return false
		}
		s.page = next
		s.index = 0
	}
}

func (s *stream) GetCurrentData() []byte {
	return s.current
}

func (s *stream) Err() error {
	return s.err
}

// BufferedResult is a fully materialized Result. It holds no reference to
// the transaction that produced the rows, so it stays valid after commit
// and can be iterated at any time.
type BufferedResult struct {
	values  [][]byte
	index   int
	current []byte
}

// NewBufferedResult wraps an in-memory snapshot of documents.
func NewBufferedResult(values [][]byte) *BufferedResult {
	return &BufferedResult{values: values}
}

// Next advances to the next document. The context is ignored; no I/O
// happens on a buffered result.
func (r *BufferedResult) Next(_ context.Context) bool {
	if r.index >= len(r.values) {
		r.current = nil
		return false
	}
	r.current = r.values[r.index]
	r.index++
	return true
}

func (r *BufferedResult) GetCurrentData() []byte {
	return r.current
}

func (r *BufferedResult) Err() error {
	return nil
}

// bufferResult drains a live result into a BufferedResult. Must run before
// the owning transaction commits, since commit invalidates the stream.
func bufferResult(ctx context.Context, res Result) (*BufferedResult, error) {
	var values [][]byte
	for res.Next(ctx) {
		values = append(values, res.GetCurrentData())
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return NewBufferedResult(values), nil
}
