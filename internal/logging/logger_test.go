package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
)

func testDetails() events.EventDetails {
	return events.NewEventDetails(
		events.KindHetzner, "org-1", "cluster-1", "exec-1",
		events.InfrastructureStage(events.InfrastructureCreate),
		events.NewTransmitter(events.TransmitterKubernetes, "cluster-1", ""),
	)
}

func captureLogger(buf *bytes.Buffer) *funcrSink {
	return &funcrSink{buf: buf}
}

type funcrSink struct {
	buf *bytes.Buffer
}

func (s *funcrSink) write(prefix, args string) {
	s.buf.WriteString(prefix)
	s.buf.WriteString(args)
	s.buf.WriteString("\n")
}

func TestLogrLogger_InfoCarriesEventDetails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := captureLogger(&buf)
	logger := NewLogrLogger(funcr.New(sink.write, funcr.Options{}), engineerr.SafeOnly)

	logger.Log(Info(testDetails(), "creating cluster"))

	out := buf.String()
	assert.Contains(t, out, "creating cluster")
	assert.Contains(t, out, `"organization"="org-1"`)
	assert.Contains(t, out, `"stage"="Infrastructure(Create)"`)
	assert.Contains(t, out, `"provider"="hetzner"`)
}

func TestLogrLogger_ErrorRespectsVerbosity(t *testing.T) {
	t.Parallel()

	engineErr := engineerr.NewCloudProviderInformationError(testDetails(), errors.New("token=hunter2"))

	var safe bytes.Buffer
	NewLogrLogger(funcr.New(captureLogger(&safe).write, funcr.Options{}), engineerr.SafeOnly).
		Log(Error(engineErr, ""))
	assert.NotContains(t, safe.String(), "hunter2")
	assert.Contains(t, safe.String(), `"tag"="CloudProviderInformationError"`)
	assert.Contains(t, safe.String(), `"stage"="Infrastructure(CreateError)"`)

	var verbose bytes.Buffer
	NewLogrLogger(funcr.New(captureLogger(&verbose).write, funcr.Options{}), engineerr.FullDetailsWithoutEnvVars).
		Log(Error(engineErr, ""))
	assert.Contains(t, verbose.String(), "hunter2")
}

func TestLogrLogger_Warning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogrLogger(funcr.New(captureLogger(&buf).write, funcr.Options{}), engineerr.SafeOnly).
		Log(Warning(testDetails(), "dns not resolved yet"))

	assert.Contains(t, buf.String(), `"level"="warning"`)
}

func TestError_DefaultsMessageToUserLogMessage(t *testing.T) {
	t.Parallel()

	engineErr := engineerr.NewNoClusterFound(testDetails())
	event := Error(engineErr, "")

	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "No cluster found.", event.Message)
	assert.Equal(t, engineErr.EventDetails(), event.Details)
}

func TestRecorderAndMulti(t *testing.T) {
	t.Parallel()

	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b}

	m.Log(Info(testDetails(), "one"))
	m.Log(Info(testDetails(), "two"))

	assert.Equal(t, []string{"one", "two"}, a.Messages())
	require.Len(t, b.Events(), 2)
	assert.True(t, strings.HasPrefix(b.Events()[1].Message, "tw"))
}

func TestFromContext_UsesStoredLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	root := funcr.New(captureLogger(&buf).write, funcr.Options{}).WithValues("execution_id", "exec-42")
	ctx := IntoContext(context.Background(), root)

	engineErr := engineerr.NewCloudProviderInformationError(testDetails(), errors.New("token=hunter2"))
	FromContext(ctx, engineerr.SafeOnly).Log(Error(engineErr, ""))

	out := buf.String()
	assert.Contains(t, out, `"execution_id"="exec-42"`)
	assert.Contains(t, out, "Error while trying to get information from the cloud provider.")
	assert.NotContains(t, out, "hunter2")
}
