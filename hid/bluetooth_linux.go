//go:build linux

package hid

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/device"
	"github.com/muka/go-bluetooth/bluez/profile/profile"
	"github.com/muka/go-bluetooth/hw/linux/cmd"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"
)

const (
	psmControl   = 0x11
	psmInterrupt = 0x13

	// Peripheral, combo keyboard/pointing device.
	deviceClass = "0x0025C0"
	profilePath = "/pageturner/hid"

	dataInputHeader byte = 0xA1

	// A host that drops this many times gets its pairing removed.
	maxFlaps = 2
)

// HID control channel transaction types and handshake results.
const (
	transHandshake  = 0x0
	transControl    = 0x1
	transGetReport  = 0x4
	transSetReport  = 0x5
	transGetProto   = 0x6
	transSetProto   = 0x7
	transGetIdle    = 0x8
	transSetIdle    = 0x9
	ctrlUnplug      = 0x05
	handshakeOK     = 0x00
	handshakeUnsupp = 0x03
)

var errNoAdapter = errors.New("bluetooth: no adapter found")

// Bluetooth is a classic Bluetooth HID peripheral on top of BlueZ. It serves
// one host at a time and goes back to discoverable when that host leaves.
type Bluetooth struct {
	cfg     BluetoothConfig
	adapter *adapter.Adapter1
	hci     string

	ctrlSock int
	itrSock  int

	mu    sync.Mutex
	ctrl  int
	itr   int
	hosts []string
	flaps map[string]int

	connected atomic.Bool
	closed    atomic.Bool
}

func NewBluetooth(cfg BluetoothConfig) *Bluetooth {
	if cfg.Alias == "" {
		cfg.Alias = DefaultAlias
	}
	return &Bluetooth{
		cfg:      cfg,
		ctrlSock: -1,
		itrSock:  -1,
		ctrl:     -1,
		itr:      -1,
		flaps:    make(map[string]int),
	}
}

func (b *Bluetooth) Start() error {
	if b.cfg.ConfigureBluez {
		if err := overrideBluez(); err != nil {
			log.WithError(err).Warnln("could not install bluetoothd override")
		}
	}

	var err error
	for i := 0; i < 5; i++ {
		if err = b.findAdapter(); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return err
	}

	if err = b.setup(); err != nil {
		return err
	}

	addr, err := b.adapter.GetAddress()
	if err != nil {
		return fmt.Errorf("read adapter address: %w", err)
	}
	log.WithFields(log.Fields{
		"Adapter": b.hci,
		"MAC":     addr,
	}).Infoln("bluetooth adapter ready")

	if b.ctrlSock, err = listenL2CAP(addr, psmControl); err != nil {
		return err
	}
	if b.itrSock, err = listenL2CAP(addr, psmInterrupt); err != nil {
		return err
	}
	b.advertise()

	go b.serve()
	return nil
}

func (b *Bluetooth) findAdapter() error {
	objects, err := managedObjects()
	if err != nil {
		return err
	}
	for path, ifaces := range objects {
		if _, ok := ifaces[adapter.Adapter1Interface]; !ok {
			continue
		}
		id := string(path)[strings.LastIndex(string(path), "/")+1:]
		if b.cfg.Adapter != "" && id != b.cfg.Adapter {
			continue
		}
		a, err := adapter.NewAdapter1(path)
		if err != nil {
			return err
		}
		b.adapter = a
		b.hci = id
		log.Debugf("using adapter under object path: %s", path)
		return nil
	}
	return errNoAdapter
}

func (b *Bluetooth) setup() (err error) {
	if err = b.adapter.SetPowered(true); err != nil {
		return fmt.Errorf("power adapter: %w", err)
	}
	if err = b.adapter.SetPairable(true); err != nil {
		log.Error(err)
	}
	if err = b.adapter.SetPairableTimeout(0); err != nil {
		log.Error(err)
	}
	if err = b.adapter.SetDiscoverableTimeout(0); err != nil {
		log.Error(err)
	}
	if err = b.adapter.SetAlias(b.cfg.Alias); err != nil {
		log.Error(err)
	} else {
		log.Debugf("setting device name to %s...", b.cfg.Alias)
	}

	record, err := ServiceRecord(b.cfg.Alias)
	if err != nil {
		return fmt.Errorf("render sdp record: %w", err)
	}
	options := map[string]interface{}{
		"ServiceRecord":         record,
		"Role":                  "server",
		"RequireAuthentication": false,
		"RequireAuthorization":  false,
		"AutoConnect":           true,
	}
	mgr, err := profile.NewProfileManager1()
	if err != nil {
		return fmt.Errorf("profile manager: %w", err)
	}
	if err = mgr.RegisterProfile(dbus.ObjectPath(profilePath), HIDServiceUUID.String(), options); err != nil {
		return fmt.Errorf("register hid profile: %w", err)
	}
	return nil
}

func (b *Bluetooth) advertise() {
	if err := b.adapter.SetDiscoverable(true); err != nil {
		log.Error(err)
	}
	if _, err := cmd.Exec("hciconfig", b.hci, "class", deviceClass); err != nil {
		log.WithError(err).Warnln("could not set device class")
	}
}

func (b *Bluetooth) serve() {
	for !b.closed.Load() {
		ctrl, _, err := unix.Accept(b.ctrlSock)
		if err != nil {
			if !b.closed.Load() {
				log.WithError(err).Errorln("accept control channel")
				time.Sleep(time.Second)
			}
			continue
		}
		itr, sa, err := unix.Accept(b.itrSock)
		if err != nil {
			unix.Close(ctrl)
			if !b.closed.Load() {
				log.WithError(err).Errorln("accept interrupt channel")
			}
			continue
		}

		host := "unknown"
		if l2, ok := sa.(*unix.SockaddrL2); ok {
			host = net.HardwareAddr(l2.Addr[:]).String()
		}
		b.mu.Lock()
		b.ctrl, b.itr = ctrl, itr
		b.mu.Unlock()
		b.connected.Store(true)
		b.trackHosts()

		log.WithFields(log.Fields{"Host": host}).Infoln("host connected")
		if err := b.adapter.SetDiscoverable(false); err != nil {
			log.Error(err)
		}

		b.control(ctrl)

		b.hangup()
		log.WithFields(log.Fields{"Host": host}).Infoln("host disconnected")
		b.trackHosts()
		if !b.closed.Load() {
			b.advertise()
		}
	}
}

// control answers control channel requests until the host goes away.
func (b *Bluetooth) control(fd int) {
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(fd, buf)
		if err != nil || n == 0 {
			return
		}
		trans, param := buf[0]>>4, buf[0]&0x0F
		switch trans {
		case transControl:
			if param == ctrlUnplug {
				return
			}
		case transSetReport, transSetProto, transSetIdle:
			_, _ = unix.Write(fd, []byte{transHandshake<<4 | handshakeOK})
		case transGetReport, transGetProto, transGetIdle:
			_, _ = unix.Write(fd, []byte{transHandshake<<4 | handshakeUnsupp})
		default:
			log.Debugf("control message 0x%02x ignored", buf[0])
		}
	}
}

func (b *Bluetooth) hangup() {
	b.connected.Store(false)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.itr >= 0 {
		unix.Close(b.itr)
		b.itr = -1
	}
	if b.ctrl >= 0 {
		unix.Shutdown(b.ctrl, unix.SHUT_RDWR)
		unix.Close(b.ctrl)
		b.ctrl = -1
	}
}

// trackHosts counts hosts that dropped off since the last check and removes
// the pairing of any host that keeps flapping, so it can pair again cleanly.
func (b *Bluetooth) trackHosts() {
	paths, err := connectedHosts()
	if err != nil {
		log.WithError(err).Debugln("list connected hosts")
		return
	}

	b.mu.Lock()
	var dropped []string
	for _, p := range b.hosts {
		if !slices.Contains(paths, p) {
			dropped = append(dropped, p)
		}
	}
	b.hosts = paths
	var remove []string
	for _, p := range dropped {
		b.flaps[p]++
		if b.flaps[p] >= maxFlaps {
			remove = append(remove, p)
			b.flaps[p] = 0
		}
	}
	b.mu.Unlock()

	for _, p := range remove {
		log.WithFields(log.Fields{"Host": p}).Warnln("host keeps disconnecting, removing pairing")
		if err := b.adapter.RemoveDevice(dbus.ObjectPath(p)); err != nil {
			log.WithError(err).Warnln("remove device failed")
		}
	}
}

func (b *Bluetooth) Connected() bool {
	return b.connected.Load()
}

func (b *Bluetooth) WriteReport(report []byte) error {
	b.mu.Lock()
	fd := b.itr
	b.mu.Unlock()
	if fd < 0 || !b.connected.Load() {
		return ErrNotConnected
	}

	buf := make([]byte, 0, len(report)+1)
	buf = append(buf, dataInputHeader)
	buf = append(buf, report...)
	if _, err := unix.Write(fd, buf); err != nil {
		b.drop()
		return fmt.Errorf("write interrupt channel: %w", err)
	}
	return nil
}

// drop marks the host gone and shuts both channels down so the control reader
// in serve returns and the adapter is advertised again. serve closes the fds.
func (b *Bluetooth) drop() {
	b.connected.Store(false)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, fd := range []int{b.ctrl, b.itr} {
		if fd >= 0 {
			unix.Shutdown(fd, unix.SHUT_RDWR)
		}
	}
}

func (b *Bluetooth) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.hangup()
	for _, fd := range []int{b.ctrlSock, b.itrSock} {
		if fd >= 0 {
			unix.Shutdown(fd, unix.SHUT_RDWR)
			unix.Close(fd)
		}
	}
	if mgr, err := profile.NewProfileManager1(); err == nil {
		_ = mgr.UnregisterProfile(dbus.ObjectPath(profilePath))
	}
	if b.adapter != nil {
		_ = b.adapter.SetDiscoverable(false)
	}
	return nil
}

func connectedHosts() (paths []string, err error) {
	objects, err := managedObjects()
	if err != nil {
		return nil, err
	}
	for path, ifaces := range objects {
		iface, ok := ifaces[device.Device1Interface]
		if !ok {
			continue
		}
		prop := new(device.Device1Properties)
		prop, err = prop.FromDBusMap(iface)
		if err != nil {
			return nil, err
		}
		if prop.Connected {
			paths = append(paths, string(path))
		}
	}
	return paths, nil
}

func managedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, error) {
	om, err := bluez.GetObjectManager()
	if err != nil {
		return nil, err
	}
	return om.GetManagedObjects()
}

var errInvalidMAC = errors.New("bluetooth: bad MAC address")

func listenL2CAP(addr string, psm uint16) (int, error) {
	sa, err := l2capSockaddr(addr, psm)
	if err != nil {
		return -1, err
	}
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return -1, fmt.Errorf("l2cap socket: %w", err)
	}
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("l2cap setsockopt: %w", err)
	}
	if err = unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("l2cap bind psm %d: %w", psm, err)
	}
	if err = unix.Listen(fd, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("l2cap listen psm %d: %w", psm, err)
	}
	return fd, nil
}

func l2capSockaddr(addr string, psm uint16) (*unix.SockaddrL2, error) {
	hw, err := net.ParseMAC(addr)
	if err != nil || len(hw) != 6 {
		return nil, errInvalidMAC
	}
	sa := &unix.SockaddrL2{
		PSM:      psm,
		AddrType: unix.BDADDR_BREDR,
	}
	copy(sa.Addr[:], hw)
	return sa, nil
}
