package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the base command; running it starts the interactive shell
var rootCmd = &cobra.Command{
	Use:   "bleterm",
	Short: "Interactive Bluetooth Low Energy terminal",
	Long: `Interactive terminal for exploring and talking to a BLE peripheral over GATT.

Scan for devices, connect, walk services and characteristics, subscribe to
notifications, read values, and send text payloads, all from one prompt
that follows your navigation depth:

  scan>                    type a device number to connect
  <device>>                type a service number to select it
  <device>/<service>>      type a characteristic number ('3h' for hex display)
  <device>/<char>>         anything you type is sent to the characteristic

Ctrl+] pops one level; Ctrl+R re-reads the selected characteristic's value.`,
	Args:    cobra.NoArgs,
	Version: formatVersion(version),
	RunE:    runShell,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		// Print user-friendly error message
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("config", "", "Path to YAML config file")

	// Add -v as a short flag for --version
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
