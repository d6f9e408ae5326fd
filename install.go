package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/kardianos/osext"
	log "github.com/sirupsen/logrus"
)

const serviceFile = `
[Unit]
Description=Bluetooth Page Turner
After=bluetooth.service
Requires=bluetooth.service

[Service]
ExecStart={{.BinPath}} run -c {{ .ConfigFile }}
Restart=on-failure
RestartSec=2

[Install]
WantedBy=multi-user.target
`

var serviceTmpl = template.Must(template.New("service").Parse(serviceFile))

func copyFile(dstPath, srcPath string, mode os.FileMode) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

// install copies the running binary below prefix, writes the systemd unit
// and, unless one exists or reset is set, the default config.
func install(prefix, configPath string, reset bool) error {
	if prefix == "" {
		prefix = "/"
	}
	bPath, err := osext.Executable()
	if err != nil {
		return err
	}

	binPath := filepath.Join(prefix, "usr/bin/pageturner")
	if err := copyFile(binPath, bPath, 0755); err != nil {
		return fmt.Errorf("copy binary: %w", err)
	}
	log.WithField("Path", binPath).Infoln("installed binary")

	unitPath := filepath.Join(prefix, "usr/lib/systemd/system/pageturner.service")
	if err := writeUnit(unitPath, "/usr/bin/pageturner", configPath); err != nil {
		return fmt.Errorf("write service: %w", err)
	}
	log.WithField("Path", unitPath).Infoln("installed service")

	confPath := filepath.Join(prefix, configPath)
	wrote, err := writeDefaultConfig(confPath, reset)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if wrote {
		log.WithField("Path", confPath).Infoln("installed default config")
	} else {
		log.WithField("Path", confPath).Infoln("kept existing config")
	}
	return nil
}

func writeUnit(path, binPath, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	err = serviceTmpl.Execute(dst, struct{ BinPath, ConfigFile string }{binPath, configPath})
	if err != nil {
		return err
	}
	return dst.Close()
}

// writeDefaultConfig reports whether it wrote the file.
func writeDefaultConfig(path string, reset bool) (bool, error) {
	_, err := os.Stat(path)
	if err == nil && !reset {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(configFile), 0644); err != nil {
		return false, err
	}
	return true, nil
}
