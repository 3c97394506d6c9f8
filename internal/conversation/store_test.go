package conversation

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/chatsurface/internal/presentation"
)

func newDemo(t *testing.T) *Store {
	t.Helper()
	s := New(Demo())
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestNewAssignsMissingIDs(t *testing.T) {
	s := New(Transcript{Messages: []Message{{ID: 7, Text: "a"}, {Text: "b"}}})

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, presentation.MessageID(7), msgs[0].ID)
	assert.Equal(t, presentation.MessageID(8), msgs[1].ID)
	assert.Equal(t, "me", s.Transcript().Self)
}

func TestSend(t *testing.T) {
	s := newDemo(t)
	reply := presentation.MessageID(2)

	m := s.Send("on it", &reply)

	assert.Equal(t, presentation.MessageID(6), m.ID)
	assert.True(t, m.Outgoing)
	assert.Equal(t, "me", m.Author)
	assert.Equal(t, &reply, m.ReplyTo)
	assert.Equal(t, 6, s.Len())
}

func TestForward(t *testing.T) {
	s := newDemo(t)

	m, err := s.Forward(4)
	require.NoError(t, err)
	assert.Equal(t, "linus", m.ForwardedFrom)
	assert.Contains(t, m.Text, "rollback plan")

	_, err = s.Forward(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEdit(t *testing.T) {
	s := newDemo(t)

	require.NoError(t, s.Edit(3, "canary moved to tomorrow"))
	m, ok := s.Get(3)
	require.True(t, ok)
	assert.True(t, m.Edited)
	assert.Equal(t, "canary moved to tomorrow", m.Text)

	assert.ErrorIs(t, s.Edit(1, "nope"), ErrNotOwn)
	assert.ErrorIs(t, s.Edit(42, "nope"), ErrNotFound)
}

func TestDeleteUnpins(t *testing.T) {
	s := newDemo(t)
	require.NotNil(t, s.Pinned())

	assert.Equal(t, 2, s.Delete(1, 2, 99))
	assert.Nil(t, s.Pinned())
	assert.Equal(t, 3, s.Len())
}

func TestPin(t *testing.T) {
	s := newDemo(t)
	id := presentation.MessageID(4)

	require.NoError(t, s.Pin(&id))
	assert.Equal(t, &presentation.PinnedMessage{MessageID: 4, Text: s.Messages()[3].Text}, s.Pinned())

	missing := presentation.MessageID(50)
	assert.ErrorIs(t, s.Pin(&missing), ErrNotFound)

	require.NoError(t, s.Pin(nil))
	assert.Nil(t, s.Pinned())
}

func TestSearch(t *testing.T) {
	s := newDemo(t)

	assert.Equal(t, []presentation.MessageID{3, 1}, s.Search("RELEASE"))
	assert.Nil(t, s.Search("  "))
	assert.Empty(t, s.Search("kubernetes"))
}

func TestHashtags(t *testing.T) {
	s := newDemo(t)
	s.Send("tagging #infra and #release!", nil)

	assert.Equal(t, []string{"infra", "release"}, s.Hashtags())
}

func TestSaveLoad(t *testing.T) {
	s := newDemo(t)
	s.Send("persist me", nil)
	path := filepath.Join(t.TempDir(), "nested", "chat.yaml")

	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Title(), loaded.Title())
	assert.Equal(t, s.Len(), loaded.Len())
	assert.Equal(t, s.Bots(), loaded.Bots())
	assert.Equal(t, s.Pinned(), loaded.Pinned())

	m := loaded.Send("next", nil)
	assert.Equal(t, presentation.MessageID(7), m.ID)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
