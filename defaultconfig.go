package main

const configFile = `
# GPIO backend: "periph" (BCM GPIO numbers), "raspi" (physical header pin
# numbers) or "terminal" (keyboard simulation, for testing without hardware)
GPIO = "periph"

# HID link: "bluetooth" or "log" (dry run, reports are only logged)
HID = "bluetooth"

# A button must read the same level for longer than this before it counts
DebounceMs = 50
PollIntervalMs = 1

# With GPIO = "raspi" these are header pins and must be changed
[Pins]
	Mode = 5
	Left = 18
	Right = 19
	LED = 2

# Host screen size in pointer units
[Screen]
	Width = 1404
	Height = 1872

[Mouse]
	# step used to reach the screen edges
	MaxStep = 127
	# step used while dragging in mode 3
	MinStep = 8
	StepDelayMs = 5

[Bluetooth]
	Alias = "Page Turner"
	# Adapter = "hci0"

	# Restart bluetoothd without the input plugin so the HID ports are free
	ConfigureBluez = true
`
