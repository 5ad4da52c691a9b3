package sim

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/browsershell/internal/config"
	"github.com/calder/browsershell/internal/session"
	"github.com/calder/browsershell/internal/shell"
)

func newModel(t *testing.T, store *session.Store) *Model {
	t.Helper()
	m, err := New(context.Background(), config.DefaultConfig(), store)
	require.NoError(t, err)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyPress(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestNew_StartsAtConfiguredDefault(t *testing.T) {
	m := newModel(t, nil)

	assert.Equal(t, shell.KindBrowsing, m.orch.ActiveKind())
}

func TestNew_RestoresSavedLayout(t *testing.T) {
	ctx := context.Background()
	store, err := session.Open(ctx, filepath.Join(t.TempDir(), "shell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	saved := session.NewState("overlay")
	saved.OverlayVideo = true
	require.NoError(t, store.Save(ctx, saved))

	m := newModel(t, store)

	assert.Equal(t, shell.KindOverlay, m.orch.ActiveKind())
	assert.True(t, m.overlayVideo)
	assert.Equal(t, saved.SessionID, m.sessionID)
}

func TestHandleKey_DigitsSwitchLayouts(t *testing.T) {
	m := newModel(t, nil)

	keyPress(m, '2')
	assert.Equal(t, shell.KindTabSwitcher, m.orch.ActiveKind())

	keyPress(m, '4')
	assert.Equal(t, shell.KindContextualOverlay, m.orch.ActiveKind())

	keyPress(m, '1')
	assert.Equal(t, shell.KindBrowsing, m.orch.ActiveKind())
}

func TestHandleKey_PinTogglesPersistentToken(t *testing.T) {
	m := newModel(t, nil)
	base := m.chrome.OutstandingTokens()

	keyPress(m, 'p')
	assert.Equal(t, base+1, m.chrome.OutstandingTokens())

	keyPress(m, 'p')
	assert.Equal(t, base, m.chrome.OutstandingTokens())
}

func TestFrameTick_AdvancesChromeAnimation(t *testing.T) {
	m := newModel(t, nil)
	keyPress(m, '4') // forces chrome fully hidden
	keyPress(m, '1')
	keyPress(m, 't')

	now := time.Now()
	for i := 0; i < 64; i++ {
		now = now.Add(16 * time.Millisecond)
		m.Update(frameTickMsg(now))
	}

	assert.Equal(t, 0.0, m.chrome.ResolvedOffset())
}

func TestScrollKeys_PushChromeAway(t *testing.T) {
	m := newModel(t, nil)

	keyPress(m, 'j')
	keyPress(m, 'j')
	assert.Equal(t, m.chrome.Height(), m.scrollPx)

	keyPress(m, 'k')
	assert.Equal(t, m.chrome.Height()/2, m.scrollPx)
}

func TestView_RendersStatusLine(t *testing.T) {
	m := newModel(t, nil)

	view := m.View()

	assert.Contains(t, view, "layout=browsing")
	assert.Contains(t, view, "tokens=")
}

func TestQuit_SavesShellState(t *testing.T) {
	ctx := context.Background()
	store, err := session.Open(ctx, filepath.Join(t.TempDir(), "shell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := newModel(t, store)
	keyPress(m, '3')
	keyPress(m, 'q')

	saved, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "overlay", saved.LayoutKind)
	assert.Equal(t, m.sessionID, saved.SessionID)
}

func TestRunHeadless_CompletesWithinBudget(t *testing.T) {
	cfg := config.DefaultConfig()

	err := RunHeadless(context.Background(), cfg, HeadlessOptions{
		Duration: 300 * time.Millisecond,
		Interval: 5 * time.Millisecond,
	})

	require.NoError(t, err)
}
