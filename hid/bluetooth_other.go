//go:build !linux

package hid

import "errors"

var errBluetoothUnsupported = errors.New("bluetooth hid link requires linux and bluez")

// Bluetooth is unavailable on this platform; Start always fails.
type Bluetooth struct{}

func NewBluetooth(cfg BluetoothConfig) *Bluetooth { return &Bluetooth{} }

func (b *Bluetooth) Start() error                    { return errBluetoothUnsupported }
func (b *Bluetooth) Connected() bool                 { return false }
func (b *Bluetooth) WriteReport(report []byte) error { return ErrNotConnected }
func (b *Bluetooth) Close() error                    { return nil }
