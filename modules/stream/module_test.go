package stream_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/modules/stream"
)

type fakeConn struct {
	events   []string
	messages []stream.Message
	closed   bool
}

func (f *fakeConn) Emit(ev string, args ...any) error {
	f.events = append(f.events, ev)
	f.messages = append(f.messages, args[0].(stream.Message))
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func input() stream.Input {
	return stream.Input{URL: "http://localhost:3000/socket.io/", Event: "update", Target: "main", Traits: []string{"score"}, Every: 2, Timeout: "1s"}
}

func TestStream_EmitsDueUpdates(t *testing.T) {
	conn := &fakeConn{}
	dial := func(context.Context, *slog.Logger, stream.Input) (stream.Emitter, error) { return conn, nil }
	owner := testutil.NewTraitOwner("owner", "score")
	s, err := stream.New("stream", input(), dial)
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 2}, owner, s)
	require.NoError(t, c.Setup())
	pop, _ := c.Population("main")
	c.InjectAt(owner.Org(1, 5), pop.Position(0))

	c.Update(5)
	require.Equal(t, []string{"update", "update"}, conn.events)
	require.Equal(t, stream.Message{Tick: 2, Target: "main", Values: map[string]string{"score": "5"}}, conn.messages[0])
	require.Equal(t, uint64(4), conn.messages[1].Tick)

	c.Close()
	require.True(t, conn.closed)
}

func TestStream_DialFailureFailsSetup(t *testing.T) {
	dial := func(context.Context, *slog.Logger, stream.Input) (stream.Emitter, error) {
		return nil, errors.New("refused")
	}
	s, err := stream.New("stream", input(), dial)
	require.NoError(t, err)
	c := testutil.NewController(t, map[string]int{"main": 1}, testutil.NewTraitOwner("owner", "score"), s)
	require.ErrorContains(t, c.Setup(), "refused")
}

func TestDial_TimesOutWithoutServer(t *testing.T) {
	in := input()
	in.URL = "http://127.0.0.1:1/socket.io/"
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := stream.Dial(ctx, slog.Default(), in)
	require.Error(t, err)
}

func TestNew_Validates(t *testing.T) {
	in := input()
	in.Timeout = "soon"
	_, err := stream.New("s", in, stream.Dial)
	require.Error(t, err)
	in = input()
	in.Traits = nil
	_, err = stream.New("s", in, stream.Dial)
	require.Error(t, err)
}
