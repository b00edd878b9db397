package dispatcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/domain/entity"
)

func TestCommand_UnmarshalSurfaceID(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"type":"switch-surface","id":7}`), &cmd))
	assert.Equal(t, entity.SurfaceID(7), cmd.SurfaceID)
	assert.Empty(t, cmd.RequestID)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"close-surface","id":"12"}`), &cmd))
	assert.Equal(t, entity.SurfaceID(12), cmd.SurfaceID)
}

func TestCommand_UnmarshalRequestID(t *testing.T) {
	var cmd Command
	raw := `{"type":"assistant-ask","id":"req-9","messages":[{"role":"user","content":"hi"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &cmd))

	assert.Equal(t, "req-9", cmd.RequestID)
	assert.Zero(t, cmd.SurfaceID)
	require.Len(t, cmd.Messages, 1)
	assert.Equal(t, "hi", cmd.Messages[0].Content)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"assistant-ask","id":42}`), &cmd))
	assert.Equal(t, "42", cmd.RequestID)
}

func TestCommand_UnmarshalRejectsBadID(t *testing.T) {
	var cmd Command
	assert.Error(t, json.Unmarshal([]byte(`{"type":"navigate","id":"abc"}`), &cmd))
}

func TestCommand_MarshalRoundTripsID(t *testing.T) {
	b, err := json.Marshal(Command{Type: CmdNavigate, SurfaceID: 3, Location: "a.test"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"navigate","id":3,"location":"a.test"}`, string(b))

	var back Command
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, entity.SurfaceID(3), back.SurfaceID)
	assert.Equal(t, "a.test", back.Location)
}

func TestCommand_MetricsRoundUp(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"type":"report-chrome-metrics","top":35.2,"left":159.0}`), &cmd))

	u := cmd.metricsUpdate()
	require.NotNil(t, u.Top)
	require.NotNil(t, u.Left)
	assert.Equal(t, 36, *u.Top)
	assert.Equal(t, 159, *u.Left)
	assert.Nil(t, u.Right)
	assert.Nil(t, u.Bottom)
}

func TestCommand_MetricsSaturateHugeEdges(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"type":"report-chrome-metrics","left":5e18,"right":1e300,"top":-7}`), &cmd))

	u := cmd.metricsUpdate()
	require.NotNil(t, u.Left)
	require.NotNil(t, u.Right)
	require.NotNil(t, u.Top)
	assert.Equal(t, entity.MaxChromeEdge, *u.Left)
	assert.Equal(t, entity.MaxChromeEdge, *u.Right)
	assert.Equal(t, 0, *u.Top)
}

func TestReply_FlattensPayloads(t *testing.T) {
	b, err := json.Marshal(Reply{OK: true, KeyStatus: nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(b))

	b, err = json.Marshal(failed(ErrUnknownCommand))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"error":"unknown command"}`, string(b))
}
