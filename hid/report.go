package hid

// Report IDs inside the combo descriptor.
const (
	KeyboardReportID byte = 0x01
	MouseReportID    byte = 0x02
)

// ReportDescriptor describes a boot-style keyboard (report 1) and a three
// button relative mouse (report 2) on one interface.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x01, // Report ID (1)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0xE0, //   Usage Minimum (Left Control)
	0x29, 0xE7, //   Usage Maximum (Right GUI)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data, Variable, Absolute)
	0x95, 0x01, //   Report Count (1)
	0x75, 0x08, //   Report Size (8)
	0x81, 0x01, //   Input (Constant) reserved byte
	0x95, 0x06, //   Report Count (6)
	0x75, 0x08, //   Report Size (8)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0xFF, //   Logical Maximum (255)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0xFF, //   Usage Maximum (255)
	0x81, 0x00, //   Input (Data, Array)
	0xC0,       // End Collection

	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x02, // Report ID (2)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x03, //     Usage Maximum (Button 3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data, Variable, Absolute)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x01, //     Input (Constant) padding
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x03, //     Report Count (3)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0xC0,       //   End Collection
	0xC0,       // End Collection
}

// KeyboardState is the pressed modifier mask and up to six key usages.
type KeyboardState struct {
	Modifiers uint8
	Keys      [6]Key
}

// BuildReport encodes the state as a keyboard input report.
//
//	Byte 0: report ID
//	Byte 1: modifiers
//	Byte 2: reserved
//	Bytes 3-8: key usages, 0 for empty slots
func (k *KeyboardState) BuildReport() []byte {
	b := make([]byte, 9)
	b[0] = KeyboardReportID
	b[1] = k.Modifiers
	for i, key := range k.Keys {
		b[3+i] = byte(key)
	}
	return b
}

// MouseState is the held button mask plus one relative movement.
type MouseState struct {
	Buttons MouseButton
	DX, DY  int8
	Wheel   int8
}

// BuildReport encodes the state as a mouse input report.
//
//	Byte 0: report ID
//	Byte 1: button bits (bit 0=Left, 1=Right, 2=Middle)
//	Bytes 2-4: dx, dy, wheel as two's complement int8
func (m *MouseState) BuildReport() []byte {
	return []byte{
		MouseReportID,
		byte(m.Buttons) & 0x07,
		byte(m.DX),
		byte(m.DY),
		byte(m.Wheel),
	}
}
