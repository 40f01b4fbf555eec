package quill

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_IteratesAcrossPages(t *testing.T) {
	channel := newFakeChannel()
	channel.fetchPages = map[string]*Page{
		"p2": {Values: [][]byte{{0x03}}, NextPageToken: aws.String("p3")},
		"p3": {Values: [][]byte{{0x04}, {0x05}}},
	}
	first := &Page{Values: [][]byte{{0x01}, {0x02}}, NextPageToken: aws.String("p2")}

	s := newStream(channel, "txn-1", first)

	var got [][]byte
	for s.Next(context.Background()) {
		got = append(got, s.GetCurrentData())
	}

	require.NoError(t, s.Err())
	assert.Equal(t, [][]byte{{0x01}, {0x02}, {0x03}, {0x04}, {0x05}}, got)
	assert.Nil(t, s.GetCurrentData(), "current data resets after exhaustion")
	assert.False(t, s.Next(context.Background()), "an exhausted stream stays exhausted")
}

func TestStream_FetchFailureStopsIteration(t *testing.T) {
	channel := newFakeChannel()
	channel.fetchErr = &Error{Kind: KindSessionInvalid}
	first := &Page{Values: [][]byte{{0x01}}, NextPageToken: aws.String("p2")}

	s := newStream(channel, "txn-1", first)

	assert.True(t, s.Next(context.Background()))
	assert.False(t, s.Next(context.Background()))
	assert.ErrorIs(t, s.Err(), channel.fetchErr)
}

func TestBufferResult_SnapshotsAllPages(t *testing.T) {
	channel := newFakeChannel()
	channel.fetchPages = map[string]*Page{
		"p2": {Values: [][]byte{{0x02}}},
	}
	s := newStream(channel, "txn-1", &Page{Values: [][]byte{{0x01}}, NextPageToken: aws.String("p2")})

	buffered, err := bufferResult(context.Background(), s)
	require.NoError(t, err)

	var got [][]byte
	for buffered.Next(context.Background()) {
		got = append(got, buffered.GetCurrentData())
	}
	assert.Equal(t, [][]byte{{0x01}, {0x02}}, got)
	assert.NoError(t, buffered.Err())
}

func TestBufferResult_PropagatesStreamError(t *testing.T) {
	channel := newFakeChannel()
	channel.fetchErr = errors.New("page gone")
	s := newStream(channel, "txn-1", &Page{Values: [][]byte{{0x01}}, NextPageToken: aws.String("p2")})

	_, err := bufferResult(context.Background(), s)
	assert.ErrorIs(t, err, channel.fetchErr)
}

func TestExecute_DirectlyReturnedResultIsBuffered(t *testing.T) {
	channel := newFakeChannel()
	channel.fetchPages = map[string]*Page{
		"p2": {Values: [][]byte{mustMarshalIon(t, "second")}},
	}
	channel.executePage = &Page{
		Values:        [][]byte{mustMarshalIon(t, "first")},
		NextPageToken: aws.String("p2"),
	}
	session, _ := newTestSession(t, 4, channel)

	value, err := session.Execute(context.Background(), func(ctx context.Context, q Executor) (any, error) {
		return q.Execute(ctx, "SELECT v FROM T")
	})
	require.NoError(t, err)

	// buffering happened before commit; the returned value is independent
	// of the now-committed transaction
	buffered, ok := value.(*BufferedResult)
	require.True(t, ok, "a directly returned live result must come back buffered, got %T", value)
	assert.Equal(t, 1, channel.commits)

	var rows [][]byte
	for buffered.Next(context.Background()) {
		rows = append(rows, buffered.GetCurrentData())
	}
	assert.Len(t, rows, 2)
}

func TestExecute_NestedResultIsNotRewritten(t *testing.T) {
	type wrapper struct {
		Inner Result
	}

	channel := newFakeChannel()
	channel.executePage = &Page{Values: [][]byte{mustMarshalIon(t, "row")}}
	session, _ := newTestSession(t, 4, channel)

	value, err := session.Execute(context.Background(), func(ctx context.Context, q Executor) (any, error) {
		res, err := q.Execute(ctx, "SELECT v FROM T")
		if err != nil {
			return nil, err
		}
		return wrapper{Inner: res}, nil
	})
	require.NoError(t, err)

	// a live result buried in a composite return value keeps its stream
	// type; it is bound to the committed transaction and no longer valid
	wrapped, ok := value.(wrapper)
	require.True(t, ok)
	_, isBuffered := wrapped.Inner.(*BufferedResult)
	assert.False(t, isBuffered, "nested results are deliberately left untouched")
}

func TestBufferedResult_EmptySnapshot(t *testing.T) {
	buffered := NewBufferedResult(nil)

	assert.False(t, buffered.Next(context.Background()))
	assert.Nil(t, buffered.GetCurrentData())
	assert.NoError(t, buffered.Err())
}
