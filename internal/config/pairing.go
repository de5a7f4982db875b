// Package config - pairing.go provides pairing code hashing for the
// companion server. The extension pairs once using a code printed by the
// CLI; only the bcrypt hash of the code is kept on the server side.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PairingConfig holds configuration for pairing code hashing and
// verification.
type PairingConfig struct {
	BcryptCost int
	Pepper     string // optional global secret for additional security
}

// NewPairingConfig creates a new pairing configuration from environment
// variables. It reads BCRYPT_COST (default: 12) and optionally
// PAIRING_PEPPER.
func NewPairingConfig() (*PairingConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &PairingConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PAIRING_PEPPER"), // empty if not set
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *PairingConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashCode hashes a pairing code using bcrypt (with optional pepper).
func (c *PairingConfig) HashCode(code string) (string, error) {
	if c.Pepper != "" {
		code = code + c.Pepper
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pairing code: %w", err)
	}

	return string(hash), nil
}

// VerifyCode verifies a pairing code against a stored hash (with optional
// pepper).
func (c *PairingConfig) VerifyCode(code, storedHash string) bool {
	if c.Pepper != "" {
		code = code + c.Pepper
	}

	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(code))
	return err == nil
}
