// Command paxctl controls a PAX ERA or PAX3 vaporizer over BLE.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/openpax/paxctl/internal/ble"
	"github.com/openpax/paxctl/internal/config"
	"github.com/openpax/paxctl/internal/pax"
)

func main() {
	app := cli.NewApp()
	app.Name = "paxctl"
	app.Usage = "control a PAX ERA or PAX3 vaporizer over Bluetooth LE"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to config file",
			Value: config.DefaultConfigPath(),
		},
		cli.StringFlag{
			Name:  "address, a",
			Usage: "device address (overrides config)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scan",
			Usage:  "scan for nearby PAX devices",
			Action: cmdScan,
		},
		{
			Name:   "probe",
			Usage:  "connect and print device identity",
			Action: cmdProbe,
		},
		{
			Name:   "lock",
			Usage:  "lock the device",
			Action: func(c *cli.Context) error { return cmdLock(c, true) },
		},
		{
			Name:   "unlock",
			Usage:  "unlock the device",
			Action: func(c *cli.Context) error { return cmdLock(c, false) },
		},
		{
			Name:  "set-temp",
			Usage: "set the heater set point",
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  "temp",
					Usage: "temperature in °C",
				},
			},
			Action: cmdSetTemp,
		},
		{
			Name:   "status",
			Usage:  "request and print current device status",
			Action: cmdStatus,
		},
		{
			Name:   "monitor",
			Usage:  "print device telemetry until interrupted",
			Action: cmdMonitor,
		},
		{
			Name:   "interactive",
			Usage:  "interactive command shell over one connection",
			Action: cmdInteractive,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist, and installs the slog handler.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.GlobalString("config")
	cfg, err := config.Load(path)
	if err != nil {
		// A missing file at the default path just means defaults; an
		// explicitly named file must exist.
		if path != config.DefaultConfigPath() || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if addr := c.GlobalString("address"); addr != "" {
		cfg.Address = addr
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return cfg, nil
}

// resolveAddress returns the configured address, scanning for the first
// matching device when none is configured.
func resolveAddress(cfg *config.Config, adapter ble.Adapter) (string, error) {
	if cfg.Address != "" {
		return cfg.Address, nil
	}

	slog.Info("no address configured, scanning", "prefix", cfg.Scan.NamePrefix)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Scan.TimeoutSeconds)*time.Second)
	defer cancel()

	if err := adapter.Enable(); err != nil {
		return "", fmt.Errorf("enable adapter: %w", err)
	}
	devices, err := adapter.Scan(ctx, cfg.Scan.NamePrefix)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no device matching %q found", cfg.Scan.NamePrefix)
	}
	slog.Info("found device", "name", devices[0].Name, "address", devices[0].Address)
	return devices[0].Address, nil
}

// withSession connects a session and runs fn with it, closing on return.
// The sink prints every inbound message to stdout.
func withSession(c *cli.Context, fn func(*pax.Session, *pax.ProbeResult) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	adapter := ble.NewTinyGoAdapter()
	address, err := resolveAddress(cfg, adapter)
	if err != nil {
		return err
	}

	session, err := pax.NewSession(adapter, printSink)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeoutSeconds)*time.Second)
	defer cancel()

	result, err := session.Connect(ctx, address)
	if err != nil {
		return err
	}
	return fn(session, result)
}

func cmdScan(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	adapter := ble.NewTinyGoAdapter()
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("enable adapter: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Scan.TimeoutSeconds)*time.Second)
	defer cancel()

	devices, err := adapter.Scan(ctx, cfg.Scan.NamePrefix)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return nil
	}
	for _, d := range devices {
		fmt.Printf("%-20s %s (RSSI %d)\n", d.Name, d.Address, d.RSSI)
	}
	return nil
}

func cmdProbe(c *cli.Context) error {
	return withSession(c, func(_ *pax.Session, result *pax.ProbeResult) error {
		id := result.Identity
		fmt.Printf("Manufacturer:      %s\n", id.Manufacturer)
		fmt.Printf("Model:             %s\n", id.ModelNumber)
		fmt.Printf("Serial:            %s\n", id.SerialNumber)
		if id.HardwareRevision != "" {
			fmt.Printf("Hardware revision: %s\n", id.HardwareRevision)
		}
		if id.SoftwareRevision != "" {
			fmt.Printf("Software revision: %s\n", id.SoftwareRevision)
		}
		fmt.Printf("Profile:           %s\n", result.Profile)
		return nil
	})
}

func cmdLock(c *cli.Context, locked bool) error {
	return withSession(c, func(session *pax.Session, _ *pax.ProbeResult) error {
		if err := session.Send(pax.LockStatus{Locked: locked}); err != nil {
			return err
		}
		if locked {
			fmt.Println("Sent lock command.")
		} else {
			fmt.Println("Sent unlock command.")
		}
		return nil
	})
}

func cmdSetTemp(c *cli.Context) error {
	if !c.IsSet("temp") {
		return fmt.Errorf("set-temp requires --temp")
	}
	temp := c.Float64("temp")

	return withSession(c, func(session *pax.Session, _ *pax.ProbeResult) error {
		if err := session.Send(pax.HeaterSetPoint{Celsius: temp}); err != nil {
			return err
		}
		// Ask the device to echo the applied set point.
		if err := session.RequestStatus(pax.NewAttributeSet(pax.TypeHeaterSetPoint)); err != nil {
			return err
		}
		fmt.Printf("Set temperature to %.1f°C.\n", temp)
		time.Sleep(2 * time.Second) // give the echo a moment to arrive
		return nil
	})
}

func cmdStatus(c *cli.Context) error {
	return withSession(c, func(session *pax.Session, _ *pax.ProbeResult) error {
		attrs := pax.NewAttributeSet(
			pax.TypeActualTemperature,
			pax.TypeHeaterSetPoint,
			pax.TypeBattery,
			pax.TypeLockStatus,
			pax.TypeChargeStatus,
			pax.TypeDynamicMode,
		)
		if err := session.RequestStatus(attrs); err != nil {
			return err
		}
		time.Sleep(3 * time.Second) // replies arrive through the sink
		return nil
	})
}

func cmdMonitor(c *cli.Context) error {
	return withSession(c, func(session *pax.Session, _ *pax.ProbeResult) error {
		fmt.Println("Monitoring... press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		return nil
	})
}
