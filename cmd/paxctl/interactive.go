package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli"

	"github.com/openpax/paxctl/internal/pax"
)

func cmdInteractive(c *cli.Context) error {
	return withSession(c, func(session *pax.Session, result *pax.ProbeResult) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "pax> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()

		fmt.Fprintf(rl.Stdout(), "Connected to %s (serial %s). Type 'help' for commands.\n",
			result.Profile, result.Identity.SerialNumber)

		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}

			parts := strings.Fields(strings.TrimSpace(line))
			if len(parts) == 0 {
				continue
			}
			cmd := strings.ToLower(parts[0])
			args := parts[1:]

			switch cmd {
			case "help", "?":
				printInteractiveHelp(rl.Stdout())

			case "info":
				id := result.Identity
				fmt.Fprintf(rl.Stdout(), "%s %s serial=%s hw=%s sw=%s\n",
					id.Manufacturer, id.ModelNumber, id.SerialNumber,
					id.HardwareRevision, id.SoftwareRevision)

			case "lock":
				sendOrReport(rl.Stdout(), session, pax.LockStatus{Locked: true})

			case "unlock":
				sendOrReport(rl.Stdout(), session, pax.LockStatus{Locked: false})

			case "temp":
				if len(args) != 1 {
					fmt.Fprintln(rl.Stdout(), "usage: temp <celsius>")
					continue
				}
				celsius, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					fmt.Fprintf(rl.Stdout(), "invalid temperature %q\n", args[0])
					continue
				}
				sendOrReport(rl.Stdout(), session, pax.HeaterSetPoint{Celsius: celsius})

			case "mode":
				if len(args) != 1 {
					fmt.Fprintln(rl.Stdout(), "usage: mode <standard|boost|efficiency|stealth|flavor>")
					continue
				}
				mode, ok := parseMode(args[0])
				if !ok {
					fmt.Fprintf(rl.Stdout(), "unknown mode %q\n", args[0])
					continue
				}
				sendOrReport(rl.Stdout(), session, pax.DynamicMode{Mode: mode})

			case "status":
				attrs := statusAttributes(args)
				if err := session.RequestStatus(attrs); err != nil {
					fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				}

			case "quit", "exit", "q":
				return nil

			default:
				fmt.Fprintf(rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
			}
		}
	})
}

func sendOrReport(w io.Writer, session *pax.Session, msg pax.Message) {
	if err := session.Send(msg); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "sent %s\n", msg.MessageType())
}

func parseMode(s string) (pax.OperatingMode, bool) {
	switch strings.ToLower(s) {
	case "standard":
		return pax.ModeStandard, true
	case "boost":
		return pax.ModeBoost, true
	case "efficiency":
		return pax.ModeEfficiency, true
	case "stealth":
		return pax.ModeStealth, true
	case "flavor":
		return pax.ModeFlavor, true
	default:
		return 0, false
	}
}

// statusAttributes maps attribute names to a request set, defaulting to the
// common telemetry when no names are given.
func statusAttributes(args []string) pax.AttributeSet {
	if len(args) == 0 {
		return pax.NewAttributeSet(
			pax.TypeActualTemperature,
			pax.TypeHeaterSetPoint,
			pax.TypeBattery,
			pax.TypeLockStatus,
			pax.TypeChargeStatus,
			pax.TypeDynamicMode,
		)
	}

	byName := map[string]pax.MessageType{
		"temp":    pax.TypeActualTemperature,
		"target":  pax.TypeHeaterSetPoint,
		"battery": pax.TypeBattery,
		"lock":    pax.TypeLockStatus,
		"charge":  pax.TypeChargeStatus,
		"mode":    pax.TypeDynamicMode,
		"usage":   pax.TypeUsage,
		"name":    pax.TypeDisplayName,
	}
	var set pax.AttributeSet
	for _, arg := range args {
		if t, ok := byName[strings.ToLower(arg)]; ok {
			set.Add(t)
		}
	}
	return set
}

func printInteractiveHelp(w io.Writer) {
	fmt.Fprint(w, `
Commands:
  info                  - print device identity
  lock / unlock         - lock or unlock the device
  temp <celsius>        - set the heater set point
  mode <name>           - set the dynamic mode
  status [attrs...]     - request status (temp target battery lock charge mode usage name)
  quit                  - disconnect and exit
`)
}
