package hid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLink struct {
	started   bool
	connected bool
	startErr  error
	reports   [][]byte
}

func (m *memLink) Start() error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	m.connected = true
	return nil
}

func (m *memLink) Connected() bool { return m.connected }

func (m *memLink) WriteReport(r []byte) error {
	m.reports = append(m.reports, append([]byte(nil), r...))
	return nil
}

func (m *memLink) Close() error {
	m.connected = false
	return nil
}

func startedCombo(t *testing.T) (*Combo, *memLink) {
	t.Helper()
	l := &memLink{}
	c := NewCombo(l)
	require.NoError(t, c.BeginKeyboard())
	require.NoError(t, c.BeginMouse())
	return c, l
}

func TestComboNotStarted(t *testing.T) {
	l := &memLink{connected: true}
	c := NewCombo(l)
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.Move(1, 1), ErrNotStarted)
	assert.ErrorIs(t, c.Click(MouseLeft), ErrNotStarted)
	assert.ErrorIs(t, c.KeyPress(KeyLeftArrow), ErrNotStarted)
	assert.ErrorIs(t, c.KeyReleaseAll(), ErrNotStarted)
	assert.Empty(t, l.reports)

	require.NoError(t, c.BeginKeyboard())
	assert.ErrorIs(t, c.Move(1, 1), ErrNotStarted, "mouse role not begun")
	assert.NoError(t, c.KeyPress(KeyLeftArrow))
}

func TestComboStartError(t *testing.T) {
	errAdapter := errors.New("no adapter")
	c := NewCombo(&memLink{startErr: errAdapter})
	err := c.BeginMouse()
	assert.ErrorIs(t, err, errAdapter)
	assert.False(t, c.IsConnected())
}

func TestComboNotConnected(t *testing.T) {
	c, l := startedCombo(t)
	assert.True(t, c.IsConnected())
	l.connected = false
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.Move(5, 0), ErrNotConnected)
	assert.ErrorIs(t, c.KeyPress(KeyRightArrow), ErrNotConnected)
	assert.Empty(t, l.reports)
}

func TestComboMove(t *testing.T) {
	c, l := startedCombo(t)

	require.NoError(t, c.Move(-7, 0))
	require.NoError(t, c.Move(0, 0))
	require.NoError(t, c.Move(300, -130))
	assert.Equal(t, [][]byte{
		{MouseReportID, 0, 0xF9, 0, 0},
		{MouseReportID, 0, 0, 0, 0},
		{MouseReportID, 0, 127, 0x81, 0},
		{MouseReportID, 0, 127, 0xFD, 0},
		{MouseReportID, 0, 46, 0, 0},
	}, l.reports)
}

func TestComboButtons(t *testing.T) {
	c, l := startedCombo(t)

	require.NoError(t, c.Press(MouseLeft))
	require.NoError(t, c.Move(8, 0))
	require.NoError(t, c.Press(MouseRight))
	require.NoError(t, c.Release(MouseLeft))
	require.NoError(t, c.Click(MouseMiddle))
	require.NoError(t, c.Release(MouseRight))
	assert.Equal(t, [][]byte{
		{MouseReportID, 0x01, 0, 0, 0},
		{MouseReportID, 0x01, 8, 0, 0},
		{MouseReportID, 0x03, 0, 0, 0},
		{MouseReportID, 0x02, 0, 0, 0},
		{MouseReportID, 0x06, 0, 0, 0},
		{MouseReportID, 0x02, 0, 0, 0},
		{MouseReportID, 0x00, 0, 0, 0},
	}, l.reports)
}

func TestComboKeys(t *testing.T) {
	c, l := startedCombo(t)

	require.NoError(t, c.KeyPress(KeyLeftArrow))
	require.NoError(t, c.KeyPress(KeyLeftArrow))
	require.NoError(t, c.KeyPress(0))
	require.NoError(t, c.KeyReleaseAll())
	assert.Equal(t, [][]byte{
		{KeyboardReportID, 0, 0, byte(KeyLeftArrow), 0, 0, 0, 0, 0},
		{KeyboardReportID, 0, 0, 0, 0, 0, 0, 0, 0},
	}, l.reports)
}

func TestComboSixKeyLimit(t *testing.T) {
	c, l := startedCombo(t)

	keys := []Key{KeyEnter, KeyEscape, KeySpace, KeyPageUp, KeyPageDown, KeyUpArrow, KeyDownArrow}
	for _, k := range keys {
		require.NoError(t, c.KeyPress(k))
	}
	require.Len(t, l.reports, 6)
	last := l.reports[5]
	assert.Equal(t, []byte{
		KeyboardReportID, 0, 0,
		byte(KeyEnter), byte(KeyEscape), byte(KeySpace),
		byte(KeyPageUp), byte(KeyPageDown), byte(KeyUpArrow),
	}, last)
}

func TestComboClose(t *testing.T) {
	c, _ := startedCombo(t)
	require.NoError(t, c.Close())
	assert.False(t, c.IsConnected())
}
