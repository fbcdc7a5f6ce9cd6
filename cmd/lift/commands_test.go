package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/events"
	"github.com/phrazzld/lift-api/internal/service"
)

func TestParseOrderChanges(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	changes, err := parseOrderChanges([]string{a.String() + "=2", b.String() + "=", c.String() + "=null"})
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, a, changes[0].ID)
	require.NotNil(t, changes[0].Order)
	assert.Equal(t, 2, *changes[0].Order)
	assert.Nil(t, changes[1].Order)
	assert.Nil(t, changes[2].Order)
}

func TestParseOrderChangesRejectsMalformedInput(t *testing.T) {
	id := uuid.New().String()

	for _, arg := range []string{id, "not-a-uuid=1", id + "=first"} {
		_, err := parseOrderChanges([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestDescribe(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, describe(plain))

	id := uuid.New()
	err := describe(&service.Error{
		Kind:    service.KindNotFound,
		Op:      "get_set",
		Message: "set not found",
		Payload: map[string]any{"id": id},
		Err:     service.ErrSetNotFound,
	})
	assert.ErrorIs(t, err, service.ErrSetNotFound)
	assert.Contains(t, err.Error(), "not_found: get_set: set not found")
	assert.Contains(t, err.Error(), id.String())

	err = describe(&service.Error{
		Kind:    service.KindServer,
		Op:      "create_user",
		Message: "failed to insert: INSERT INTO users (email) VALUES ('squatter@example.com')",
	})
	assert.Contains(t, err.Error(), "server: create_user: failed to insert: [REDACTED_SQL]")
	assert.NotContains(t, err.Error(), "squatter@example.com")
}

func TestActingUser(t *testing.T) {
	userFlag = ""
	_, err := actingUser()
	assert.Error(t, err)

	userFlag = "nope"
	_, err = actingUser()
	assert.Error(t, err)

	id := uuid.New()
	userFlag = id.String()
	got, err := actingUser()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	userFlag = ""
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"migrate", "register", "start-routine", "reorder-exercises", "reorder-sets", "progress"} {
		assert.Contains(t, names, want)
	}
}

func TestReorderRequiresUser(t *testing.T) {
	userFlag = ""
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"reorder-sets", uuid.New().String() + "=1"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "--user"))
}

func TestHashPassword(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash-password", "correct horse"})
	require.NoError(t, root.Execute())

	hash, err := domain.RestorePasswordHash(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.True(t, hash.Matches("correct horse"))

	root = newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"hash-password", "short"})
	assert.ErrorIs(t, root.Execute(), domain.ErrInvalidPassword)
}

func TestEventLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &eventLogHandler{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	event, err := events.FromDomain(domain.Event{
		Name:    domain.EventUserCreated,
		Payload: map[string]any{"id": "6f1c1b5e-8a52-4d0e-9a0b-2a4f6f0b7c11", "username": "squatter"},
	})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Contains(t, buf.String(), `"username":"squatter"`)
	assert.Contains(t, buf.String(), `"user_id":"6f1c1b5e-8a52-4d0e-9a0b-2a4f6f0b7c11"`)

	other, err := events.NewEvent("workout.started", map[string]any{})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), other))
}

func TestEventLogHandlerBadPayload(t *testing.T) {
	h := &eventLogHandler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	event := &events.Event{ID: uuid.New(), Type: domain.EventUserCreated, Payload: []byte(`[1,2]`)}
	assert.Error(t, h.HandleEvent(context.Background(), event))
}
