package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regressdemo/internal/population"
)

func newModel(t *testing.T, n int) (Model, *population.Session) {
	t.Helper()
	s, err := population.NewSession(n, population.NewNormalSource(100, 10, 17))
	require.NoError(t, err)
	return New(s), s
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewPlacesSliderAtWeight(t *testing.T) {
	m, _ := newModel(t, 20)
	assert.Equal(t, 50, m.Percent())
	assert.Nil(t, m.Init())
}

func TestSliderMovesWeight(t *testing.T) {
	m, s := newModel(t, 20)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 51, m.Percent())
	assert.InDelta(t, 0.51, s.Weight(), 1e-12)

	m = press(t, m, runeKey('H'), runeKey('H'))
	assert.Equal(t, 31, m.Percent())
	assert.InDelta(t, 0.31, s.Weight(), 1e-12)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftRight})
	assert.Equal(t, 41, m.Percent())
}

func TestSliderClampsAtBounds(t *testing.T) {
	m, s := newModel(t, 20)

	for i := 0; i < 8; i++ {
		m = press(t, m, runeKey('L'))
	}
	assert.Equal(t, 100, m.Percent())
	assert.Equal(t, 1.0, s.Weight())

	for i := 0; i < 12; i++ {
		m = press(t, m, runeKey('H'))
	}
	assert.Equal(t, 0, m.Percent())
	assert.Equal(t, 0.0, s.Weight())
}

func TestReshuffleKey(t *testing.T) {
	m, s := newModel(t, 20)

	m = press(t, m, runeKey('r'))
	assert.Equal(t, 2, s.Round())
	assert.False(t, s.Deltas().Empty())

	press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 3, s.Round())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, 20)

	next, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestPaging(t *testing.T) {
	m, _ := newModel(t, 100)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 32})
	m = next.(Model)
	assert.Equal(t, 10, m.pageSize)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10, m.offset)
	assert.Equal(t, 11, m.page()[0].ID)

	for i := 0; i < 20; i++ {
		m = press(t, m, runeKey('j'))
	}
	assert.Equal(t, 90, m.offset)
	assert.Len(t, m.page(), 10)

	m = press(t, m, runeKey('k'))
	assert.Equal(t, 80, m.offset)
}

func TestPagingSmallPopulation(t *testing.T) {
	m, _ := newModel(t, 6)

	m = press(t, m, runeKey('j'))
	assert.Equal(t, 0, m.offset)
	assert.Len(t, m.page(), 6)
}

func TestView(t *testing.T) {
	m, _ := newModel(t, 20)

	v := m.View()
	assert.Contains(t, v, "Regression to the Mean")
	assert.Contains(t, v, "round 1")
	assert.Contains(t, v, "Genetic: 50.0%, Environmental: 50.0%")
	assert.Contains(t, v, "New Top Five")
	assert.Contains(t, v, "Change in Previous Top 5: \n")
	assert.Contains(t, v, "Previous Mean:")

	m = press(t, m, runeKey('r'))
	v = m.View()
	assert.Contains(t, v, "round 2")
	assert.Contains(t, v, "Change in Previous Top 5: ID ")
}
