//go:build linux

package hid

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/muka/go-bluetooth/hw/linux/cmd"
	log "github.com/sirupsen/logrus"
)

const (
	bluetoothUnit = "/lib/systemd/system/bluetooth.service"
	overrideDir   = "/run/systemd/system/bluetooth.service.d"
	overridePath  = overrideDir + "/pageturner.conf"
)

// overrideBluez restarts bluetoothd without its input plugin, which would
// otherwise own L2CAP PSM 17 and 19. It only acts on systemd hosts and only
// once per boot since the override lives under /run.
func overrideBluez() error {
	ret, err := cmd.Exec("ps", "--no-headers", "-o", "comm", "1")
	if err != nil || strings.TrimSpace(ret) != "systemd" {
		return nil
	}
	if _, err := os.Stat(overridePath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	file, err := os.Open(bluetoothUnit)
	if err != nil {
		return err
	}
	defer file.Close()

	execStart := ""
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); strings.HasPrefix(line, "ExecStart=") {
			execStart = line + " --noplugin=input"
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if execStart == "" {
		return fmt.Errorf("%s: no ExecStart line", bluetoothUnit)
	}

	override := "[Service]\nExecStart=\n" + execStart + "\n"
	if err := os.MkdirAll(overrideDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(overridePath, []byte(override), 0644); err != nil {
		return err
	}
	log.WithFields(log.Fields{"Path": overridePath}).Infoln("installed bluetoothd override")

	if _, err := cmd.Exec("systemctl", "daemon-reload"); err != nil {
		return err
	}
	if _, err := cmd.Exec("systemctl", "restart", "bluetooth"); err != nil {
		return err
	}
	log.Debugln("bluetooth reloaded")
	return nil
}
