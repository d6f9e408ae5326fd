package hid

// BluetoothConfig selects and names the adapter the Bluetooth link uses.
type BluetoothConfig struct {
	// Adapter is the controller id such as "hci0"; empty picks the first one.
	Adapter        string
	Alias          string
	// ConfigureBluez installs a bluetoothd override that disables the input
	// plugin, which otherwise holds the HID PSMs.
	ConfigureBluez bool
}

const DefaultAlias = "Page Turner"
