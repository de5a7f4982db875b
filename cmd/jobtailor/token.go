package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a pairing code for the browser extension",
	Long: `Generate a random pairing code and its bcrypt hash.

Set PAIRING_CODE_HASH on the server to the printed hash, then enter the code
in the extension's pairing screen. The server exchanges a valid code for a
bearer token at POST /pair.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	raw := make([]byte, 18)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate pairing code: %w", err)
	}
	code := base64.RawURLEncoding.EncodeToString(raw)

	pairing, err := config.NewPairingConfig()
	if err != nil {
		return err
	}
	hash, err := pairing.HashCode(code)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Pairing code (enter in the extension):\n  %s\n\n", code)
	fmt.Fprintf(os.Stdout, "Server environment:\n  PAIRING_CODE_HASH=%s\n", hash)
	return nil
}
