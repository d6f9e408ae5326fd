package hid

import (
	"encoding/hex"
	"encoding/xml"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLink(t *testing.T) {
	k, err := ParseLink(" Bluetooth ")
	require.NoError(t, err)
	assert.Equal(t, LinkBluetooth, k)

	k, err = ParseLink("log")
	require.NoError(t, err)
	assert.Equal(t, LinkLog, k)

	_, err = ParseLink("usb")
	assert.ErrorIs(t, err, ErrUnknownLink)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "left", MouseLeft.String())
	assert.Equal(t, "buttons(0x03)", (MouseLeft | MouseRight).String())
	assert.Equal(t, "LeftArrow", KeyLeftArrow.String())
	assert.Equal(t, "Key(0x04)", Key(0x04).String())
}

func TestBuildReport(t *testing.T) {
	k := KeyboardState{Modifiers: 0x02, Keys: [6]Key{KeyPageDown}}
	assert.Equal(t, []byte{1, 0x02, 0, 0x4E, 0, 0, 0, 0, 0}, k.BuildReport())

	m := MouseState{Buttons: 0xFF, DX: -1, DY: 127, Wheel: -127}
	assert.Equal(t, []byte{2, 0x07, 0xFF, 0x7F, 0x81}, m.BuildReport())
}

func TestReportDescriptorCollections(t *testing.T) {
	var open, closed int
	for i := 0; i < len(ReportDescriptor); i++ {
		switch ReportDescriptor[i] {
		case 0xA1:
			open++
			i++
		case 0xC0:
			closed++
		default:
			i++
		}
	}
	assert.Equal(t, 3, open)
	assert.Equal(t, open, closed)
}

func TestServiceRecord(t *testing.T) {
	rec, err := ServiceRecord("Kindle <turner>")
	require.NoError(t, err)

	var doc struct {
		XMLName xml.Name
	}
	require.NoError(t, xml.Unmarshal([]byte(rec), &doc))
	assert.Equal(t, "record", doc.XMLName.Local)
	assert.Contains(t, rec, "Kindle &lt;turner&gt;")
	assert.Contains(t, rec, hex.EncodeToString(ReportDescriptor))

	rec, err = ServiceRecord("")
	require.NoError(t, err)
	assert.Contains(t, rec, DefaultAlias)
	assert.Equal(t, "00001124-0000-1000-8000-00805f9b34fb", HIDServiceUUID.String())
}

func TestLogLink(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	l := NewLogLink(logger)
	assert.False(t, l.Connected())
	assert.ErrorIs(t, l.WriteReport([]byte{1}), ErrNotConnected)

	require.NoError(t, l.Start())
	assert.True(t, l.Connected())

	c := NewCombo(l)
	require.NoError(t, c.BeginKeyboard())
	require.NoError(t, c.BeginMouse())
	hook.Reset()

	require.NoError(t, c.KeyPress(KeyRightArrow))
	require.NoError(t, c.Move(3, 0))
	require.NoError(t, c.Click(MouseLeft))
	require.NoError(t, l.WriteReport([]byte{9}))

	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Level.String()+" "+e.Message)
	}
	assert.Equal(t, []string{
		"info keyboard report",
		"debug mouse move",
		"info mouse buttons",
		"info mouse buttons",
		"warning unknown report",
	}, msgs)
	assert.Equal(t, "0100004f0000000000", hook.AllEntries()[0].Data["Report"])

	require.NoError(t, l.Close())
	assert.False(t, l.Connected())
}

func TestNewLogLinkDefaultsToStandardLogger(t *testing.T) {
	l := NewLogLink(nil)
	assert.Equal(t, log.StandardLogger(), l.log)
}
