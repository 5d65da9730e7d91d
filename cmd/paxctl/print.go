package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openpax/paxctl/internal/pax"
)

// printSink renders inbound telemetry to stdout. Decode errors are logged
// and otherwise ignored; unknown telemetry must never end a session.
func printSink(msg pax.Message, err error) {
	if err != nil {
		slog.Debug("[pax] undecodable telemetry", "error", err)
		return
	}
	fmt.Println(formatMessage(msg))
}

func formatMessage(msg pax.Message) string {
	switch m := msg.(type) {
	case pax.ActualTemperature:
		return fmt.Sprintf("Oven temperature: %.1f°C", m.Celsius)
	case pax.HeaterSetPoint:
		return fmt.Sprintf("Heater set point: %.1f°C", m.Celsius)
	case pax.CurrentTargetTemperature:
		return fmt.Sprintf("Current target: %.1f°C", m.Celsius)
	case pax.Battery:
		return fmt.Sprintf("Battery level: %d%%", m.Percent)
	case pax.Usage:
		return fmt.Sprintf("Usage: %s", time.Duration(m.Seconds)*time.Second)
	case pax.UsageLimit:
		return fmt.Sprintf("Usage limit: %s", time.Duration(m.Seconds)*time.Second)
	case pax.LockStatus:
		if m.Locked {
			return "Device is Locked"
		}
		return "Device is Unlocked"
	case pax.ChargeStatus:
		return fmt.Sprintf("Charging: %t, Charge complete: %t", m.Charging, m.Complete)
	case pax.PodInserted:
		return fmt.Sprintf("Pod inserted: %t", m.Inserted)
	case pax.Time:
		return fmt.Sprintf("Device time: %s", time.Unix(int64(m.Seconds), 0).UTC().Format(time.RFC3339))
	case pax.DisplayName:
		return fmt.Sprintf("Display name: %s", m.Name)
	case pax.HeaterRanges:
		return fmt.Sprintf("Heater range: %.1f..%.1f°C", m.Min, m.Max)
	case pax.DynamicMode:
		return fmt.Sprintf("Dynamic mode: %s", m.Mode)
	case pax.ColorTheme:
		return fmt.Sprintf("Color theme: %d", m.Theme)
	case pax.Brightness:
		return fmt.Sprintf("Brightness: %d", m.Level)
	case pax.HapticMode:
		return fmt.Sprintf("Haptic mode: %d", m.Mode)
	case pax.SupportedAttributes:
		return fmt.Sprintf("Supported attributes: %s", formatAttributes(m.Attributes))
	case pax.HeatingParams:
		return fmt.Sprintf("Heating params: %x", m.Data)
	case pax.UIMode:
		return fmt.Sprintf("UI mode: %d", m.Mode)
	case pax.ShellColor:
		return fmt.Sprintf("Shell color: %d", m.Color)
	case pax.LowSoCMode:
		return fmt.Sprintf("Low SoC mode: %d", m.Value)
	case pax.HeatingState:
		return fmt.Sprintf("Heating state: %d", m.State)
	case pax.Haptics:
		return fmt.Sprintf("Haptics: pattern %d", m.Pattern)
	default:
		return fmt.Sprintf("%s message", msg.MessageType())
	}
}

func formatAttributes(attrs pax.AttributeSet) string {
	var names []string
	for _, t := range attrs.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
