package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestComponentLoggers(t *testing.T) {
	t.Setenv("IMPORTER_ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	InitWithWriter(&buf)
	defer func() { Default = nil }()

	ForImporter("DVAGO").Info().Msg("Product import finished")
	ForPublisher().WithFields(Fields{"kind": "brands"}).WithError(errors.New("stream unavailable")).Warn().Msg("Failed to publish import report")
	ForHTTP().Debug().Msg("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "component=importer")
	assert.Contains(t, out, "source=DVAGO")
	assert.Contains(t, out, "component=publisher")
	assert.Contains(t, out, "kind=brands")
	assert.Contains(t, out, "stream unavailable")
	assert.NotContains(t, out, "hidden at info level")
}

func TestGetLogLevel(t *testing.T) {
	testCases := []struct {
		level       string
		environment string
		want        zerolog.Level
	}{
		{"", "development", zerolog.DebugLevel},
		{"", "production", zerolog.InfoLevel},
		{"warn", "development", zerolog.WarnLevel},
		{"nonsense", "development", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level+"/"+tc.environment, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tc.level)
			t.Setenv("IMPORTER_ENVIRONMENT", tc.environment)
			assert.Equal(t, tc.want, getLogLevel())
		})
	}
}
