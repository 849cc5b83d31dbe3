package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/trading-position-modeler/internal/models"
	"github.com/trogers1052/trading-position-modeler/internal/notify"
	"github.com/trogers1052/trading-position-modeler/internal/notify/notifytest"
)

func TestLogNotifier_Levels(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(zerolog.New(&buf))
	ctx := context.Background()

	n.Success(ctx, "Position Momentum created!")
	n.Warn(ctx, "Candidate for trading bot")
	n.Error(ctx, "PositionService: create failed: boom")
	n.Info(ctx, "2 position(s) imported from sheet")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level        string
		notification string
		message      string
	}{
		{"info", models.NotificationSuccess, "Position Momentum created!"},
		{"warn", models.NotificationWarning, "Candidate for trading bot"},
		{"error", models.NotificationError, "PositionService: create failed: boom"},
		{"info", models.NotificationInfo, "2 position(s) imported from sheet"},
	}
	for i, tt := range tests {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &entry))
		assert.Equal(t, tt.level, entry["level"])
		assert.Equal(t, tt.notification, entry["notification"])
		assert.Equal(t, tt.message, entry["message"])
		assert.Equal(t, "notifier", entry["component"])
	}
}

func TestFanout_ForwardsToEveryNotifier(t *testing.T) {
	first := &notifytest.Recorder{}
	second := &notifytest.Recorder{}
	f := notify.NewFanout(first, nil, second)
	require.Len(t, f, 2)

	ctx := context.Background()
	f.Success(ctx, "ok")
	f.Warn(ctx, "hmm")
	f.Error(ctx, "bad")
	f.Info(ctx, "fyi")

	for _, r := range []*notifytest.Recorder{first, second} {
		assert.Equal(t, []notifytest.Entry{
			{Level: models.NotificationSuccess, Message: "ok"},
			{Level: models.NotificationWarning, Message: "hmm"},
			{Level: models.NotificationError, Message: "bad"},
			{Level: models.NotificationInfo, Message: "fyi"},
		}, r.Entries)
	}
}

func TestFanout_Empty(t *testing.T) {
	f := notify.NewFanout()
	assert.NotPanics(t, func() { f.Error(context.Background(), "nobody listens") })
}
