package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	var req AnnouncementActionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":"12"}`), &req))
	assert.Equal(t, int64(12), req.TargetID())

	req = AnnouncementActionRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"announcement_id":7}`), &req))
	assert.Equal(t, int64(7), req.TargetID())

	req = AnnouncementActionRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &req))
	assert.Equal(t, int64(0), req.TargetID())

	assert.Error(t, json.Unmarshal([]byte(`{"id":"abc"}`), &req))
}
