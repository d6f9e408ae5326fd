package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mastercactapus/pageturner/turner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	installPrefix string
	installReset  bool
	configPath    string
	gpioBackend   string
	hidLink       string
	logLevel      string

	mainCmd = &cobra.Command{
		Use:   "pageturner",
		Short: "Bluetooth page turner for e-readers",
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Poll the buttons and send input to the paired host",
		Run:   runTurner,
	}
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Install the binary, systemd unit and default config",
		Run:   runInstall,
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Run:   runConfig,
	}
)

func runInstall(cmd *cobra.Command, args []string) {
	err := install(installPrefix, configPath, installReset)
	if err != nil {
		log.Fatalln("install:", err)
	}
}

// loadConfig applies command line overrides on top of the config file.
func loadConfig(cmd *cobra.Command) Config {
	c, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalln("load config:", err)
	}
	if cmd.Flags().Changed("gpio") {
		c.GPIO = gpioBackend
	}
	if cmd.Flags().Changed("hid") {
		c.HID = hidLink
	}
	if err := c.Validate(); err != nil {
		log.Fatalln("load config:", err)
	}
	return c
}

func runConfig(cmd *cobra.Command, args []string) {
	c := loadConfig(cmd)
	if err := c.Encode(os.Stdout); err != nil {
		log.Fatalln("encode config:", err)
	}
}

func runTurner(cmd *cobra.Command, args []string) {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Fatalln("log level:", err)
	}
	log.SetLevel(lvl)

	if err := serve(loadConfig(cmd)); err != nil {
		log.Fatalln("run:", err)
	}
}

// serve owns the backends for the lifetime of the engine and releases them
// before returning, so the terminal is restored before any fatal log line.
func serve(c Config) error {
	gpio, term, err := c.OpenPins()
	if err != nil {
		return err
	}
	defer gpio.Close()

	var console io.Writer = os.Stdout
	if term != nil {
		log.SetOutput(term.Logs())
		defer log.SetOutput(os.Stderr)
		console = term.Console()
	}

	combo, err := c.OpenHID()
	if err != nil {
		return err
	}
	defer combo.Close()

	d, err := turner.New(turner.Options{
		Settings: c.Settings(),
		Pins:     gpio,
		HID:      combo,
		Console:  console,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if term != nil {
		go func() {
			select {
			case <-term.Done():
				stop()
			case <-ctx.Done():
			}
		}()
	}

	if err := d.Setup(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"GPIO": c.GPIO,
		"HID":  c.HID,
	}).Infoln("page turner started")

	return d.Run(ctx)
}

func main() {
	installCmd.Flags().BoolVar(&installReset, "reset", false, "Reset config. Resets configuration to default, even if a config file already exists")
	installCmd.Flags().StringVarP(&installPrefix, "prefix", "p", "", "Install prefix. Prefix to install directory, default is /")
	runCmd.Flags().StringVar(&gpioBackend, "gpio", "", "GPIO backend. One of raspi, periph or terminal; overrides the config file")
	runCmd.Flags().StringVar(&hidLink, "hid", "", "HID link. One of bluetooth or log; overrides the config file")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level. One of trace, debug, info, warn or error")
	configCmd.Flags().StringVar(&gpioBackend, "gpio", "", "GPIO backend override")
	configCmd.Flags().StringVar(&hidLink, "hid", "", "HID link override")
	mainCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/pageturner.conf", "Config path. The path to the configuration file")
	mainCmd.AddCommand(runCmd, installCmd, configCmd)
	mainCmd.Execute()
}
