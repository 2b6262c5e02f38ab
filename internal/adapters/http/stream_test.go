package httpadapter

import (
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/api/solve/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSolveStreamDeliversStepsThenResult(t *testing.T) {
	srv := newTestServer(t)
	conn := dialStream(t, srv.URL)

	require.NoError(t, conn.WriteJSON(solveReq{Board: samplePuzzle}))

	var steps int
	for {
		var frame streamStep
		require.NoError(t, conn.ReadJSON(&frame))
		if frame.Type == "step" {
			require.NotNil(t, frame.Step)
			assert.Equal(t, steps+1, frame.Step.Index)
			steps++
			continue
		}
		require.Equal(t, "result", frame.Type)
		assert.Empty(t, frame.Error)
		assert.True(t, frame.Solved)
		assert.Equal(t, sampleSolution, frame.Board)
		assert.Equal(t, steps, frame.Steps)
		break
	}
	assert.Positive(t, steps)
}

func TestSolveStreamBadBoard(t *testing.T) {
	srv := newTestServer(t)
	conn := dialStream(t, srv.URL)

	require.NoError(t, conn.WriteJSON(solveReq{Board: "123"}))
	var frame streamStep
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "result", frame.Type)
	assert.NotEmpty(t, frame.Error)
}
