package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	settings  map[string]string
	standings []storage.Standing
	getErr    error
	lastLimit int
	setCalls  int
}

func newFakeStore(standings ...storage.Standing) *fakeStore {
	return &fakeStore{settings: map[string]string{}, standings: standings}
}

func (s *fakeStore) GetSetting(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.settings[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) SetSetting(_ context.Context, key, value string) error {
	s.setCalls++
	s.settings[key] = value
	return nil
}

func (s *fakeStore) GoldStandings(_ context.Context, limit int) ([]storage.Standing, error) {
	s.lastLimit = limit
	return s.standings, nil
}

type fakeMessages struct {
	messages map[string]string // message id -> description
	nextID   int
	sends    int
	edits    int
	failEdit bool
	failSend bool
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{messages: map[string]string{}}
}

func (m *fakeMessages) Fetch(_, messageID string) error {
	if _, ok := m.messages[messageID]; !ok {
		return errors.New("404 Not Found")
	}
	return nil
}

func (m *fakeMessages) Edit(_, messageID string, embed *discordgo.MessageEmbed) error {
	if m.failEdit {
		return errors.New("missing permissions")
	}
	m.edits++
	m.messages[messageID] = embed.Description
	return nil
}

func (m *fakeMessages) Send(_ string, embed *discordgo.MessageEmbed) (string, error) {
	if m.failSend {
		return "", errors.New("gateway unavailable")
	}
	m.sends++
	m.nextID++
	id := fmt.Sprintf("m%d", m.nextID)
	m.messages[id] = embed.Description
	return id, nil
}

func newTestReconciler(store *fakeStore, messages *fakeMessages) *Reconciler {
	r := NewReconciler(store, messages, 10)
	r.now = func() time.Time { return time.Date(2025, 1, 6, 17, 0, 0, 0, time.UTC) }
	return r
}

func TestReconcile_CreatesWhenNoPointer(t *testing.T) {
	store := newFakeStore(storage.Standing{Name: "Alpha", Score: 2})
	messages := newFakeMessages()
	r := newTestReconciler(store, messages)

	result, err := r.Reconcile(context.Background(), "chan", 0)
	require.NoError(t, err)

	assert.Equal(t, ResultCreated, result)
	assert.Equal(t, "m1", store.settings[SettingKey("chan")])
	assert.Equal(t, "🥇 **Alpha** — 2", messages.messages["m1"])
	assert.Equal(t, 10, store.lastLimit)
}

func TestReconcile_IsReentrant(t *testing.T) {
	store := newFakeStore(storage.Standing{Name: "Alpha", Score: 1})
	messages := newFakeMessages()
	r := newTestReconciler(store, messages)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "chan", 0)
	require.NoError(t, err)

	store.standings = []storage.Standing{{Name: "Alpha", Score: 1}, {Name: "Bravo", Score: 4}}
	result, err := r.Reconcile(ctx, "chan", 0)
	require.NoError(t, err)

	assert.Equal(t, ResultEdited, result)
	assert.Equal(t, 1, messages.sends)
	assert.Equal(t, 1, messages.edits)
	assert.Equal(t, 1, store.setCalls)
	assert.Equal(t, "m1", store.settings[SettingKey("chan")])
	assert.Equal(t, "🥇 **Bravo** — 4\n🥈 **Alpha** — 1", messages.messages["m1"])
}

func TestReconcile_RecoversFromDeletedMessage(t *testing.T) {
	store := newFakeStore()
	store.settings[SettingKey("chan")] = "deleted"
	messages := newFakeMessages()
	r := newTestReconciler(store, messages)

	result, err := r.Reconcile(context.Background(), "chan", 0)
	require.NoError(t, err)

	assert.Equal(t, ResultCreated, result)
	assert.Equal(t, "m1", store.settings[SettingKey("chan")])
	assert.Equal(t, Placeholder, messages.messages["m1"])
}

func TestReconcile_EditFailureFallsBackToCreate(t *testing.T) {
	store := newFakeStore()
	messages := newFakeMessages()
	messages.messages["old"] = "stale"
	messages.failEdit = true
	store.settings[SettingKey("chan")] = "old"
	r := newTestReconciler(store, messages)

	result, err := r.Reconcile(context.Background(), "chan", 0)
	require.NoError(t, err)

	assert.Equal(t, ResultCreated, result)
	assert.Equal(t, "m1", store.settings[SettingKey("chan")])
}

func TestReconcile_SettingsReadFailureTreatedAsNoPointer(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("database is locked")
	messages := newFakeMessages()
	r := newTestReconciler(store, messages)

	result, err := r.Reconcile(context.Background(), "chan", 0)
	require.NoError(t, err)
	assert.Equal(t, ResultCreated, result)
	assert.Equal(t, 1, messages.sends)
}

func TestReconcile_SendFailureIsReturned(t *testing.T) {
	store := newFakeStore()
	messages := newFakeMessages()
	messages.failSend = true
	r := newTestReconciler(store, messages)

	_, err := r.Reconcile(context.Background(), "chan", 0)
	assert.Error(t, err)
	assert.Empty(t, store.settings)
}

func TestReconcile_ChannelsAreIndependent(t *testing.T) {
	store := newFakeStore()
	messages := newFakeMessages()
	r := newTestReconciler(store, messages)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "a", 0)
	require.NoError(t, err)
	_, err = r.Reconcile(ctx, "b", 3)
	require.NoError(t, err)

	assert.Equal(t, "m1", store.settings[SettingKey("a")])
	assert.Equal(t, "m2", store.settings[SettingKey("b")])
	assert.Equal(t, 3, store.lastLimit)
}

func TestSettingKey(t *testing.T) {
	assert.Equal(t, "gold_lb_msg_123", SettingKey("123"))
}
