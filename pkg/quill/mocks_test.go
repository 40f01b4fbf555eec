package quill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// zeroBackoff keeps retry tests fast.
type zeroBackoff struct{}

func (zeroBackoff) Delay(int) time.Duration { return 0 }

// fakeChannel scripts one ledger session. Counters record the wire calls
// the engine made; err fields inject failures.
type fakeChannel struct {
	sessionID string

	starts  int
	commits int
	aborts  int
	ends    int

	startErr   error
	executeErr error
	commitErr  error
	abortErr   error
	endErr     error

	// statements executed, in order
	statements []string
	// first page returned by Execute; follow-up pages by token
	executePage *Page
	fetchPages  map[string]*Page
	fetchErr    error

	lastCommitDigest []byte
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{sessionID: uuid.New().String()}
}

func (c *fakeChannel) StartTransaction(_ context.Context) (string, error) {
	c.starts++
	if c.startErr != nil {
		return "", c.startErr
	}
	return uuid.New().String(), nil
}

func (c *fakeChannel) Execute(_ context.Context, _, statement string, _ [][]byte) (*Page, error) {
	c.statements = append(c.statements, statement)
	if c.executeErr != nil {
		return nil, c.executeErr
	}
	if c.executePage != nil {
		return c.executePage, nil
	}
	return &Page{}, nil
}

func (c *fakeChannel) FetchPage(_ context.Context, _, pageToken string) (*Page, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	page, ok := c.fetchPages[pageToken]
	if !ok {
		return nil, fmt.Errorf("unknown page token %q", pageToken)
	}
	return page, nil
}

func (c *fakeChannel) Commit(_ context.Context, _ string, commitDigest []byte) error {
	if c.commitErr != nil {
		return c.commitErr
	}
	c.commits++
	c.lastCommitDigest = commitDigest
	return nil
}

func (c *fakeChannel) Abort(_ context.Context) error {
	c.aborts++
	return c.abortErr
}

func (c *fakeChannel) End(_ context.Context) error {
	c.ends++
	return c.endErr
}

func (c *fakeChannel) SessionID() string  { return c.sessionID }
func (c *fakeChannel) LedgerName() string { return "test-ledger" }

// fakeDialer hands out scripted channels in order.
type fakeDialer struct {
	channels []*fakeChannel
	dials    int
	dialErr  error
}

func (d *fakeDialer) Dial(_ context.Context, _ string) (Channel, error) {
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	if d.dials >= len(d.channels) {
		return nil, fmt.Errorf("fakeDialer: no channel scripted for dial %d", d.dials)
	}
	channel := d.channels[d.dials]
	d.dials++
	return channel, nil
}

// newTestSession builds a session on the given channels with zero backoff.
func newTestSession(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, retryLimit int, channels ...*fakeChannel) (*Session, *fakeDialer) {
	t.Helper()
	dialer := &fakeDialer{channels: channels}
	session, err := New(context.Background(), "test-ledger", dialer,
		WithRetryLimit(retryLimit),
		WithBackoff(zeroBackoff{}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return session, dialer
}
