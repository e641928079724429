// rekey rotates the password of a .tusk key file: decrypt with the old
// password, re-encrypt with the new one (fresh salt and nonce).
// Usage: go run ./cmd/rekey <path-to-key-file>
package main

import (
	"fmt"
	"os"

	"tusk/internal/crypto"

	"golang.org/x/term"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rekey <path-to-key-file>")
		os.Exit(1)
	}
	filePath := os.Args[1]

	oldPassword, err := promptPassword("Current password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(oldPassword)

	keyFile, keyData, err := crypto.DecryptKeyFile(filePath, oldPassword)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}
	defer clear(keyData.PrivateKey)

	newPassword, err := promptPassword("New password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(newPassword)

	confirm, err := promptPassword("Repeat new password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(confirm)

	if string(newPassword) != string(confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	// EncryptKeyFile refuses to overwrite a non-empty file, so truncate
	// first. The decrypted key is still in memory if the write fails.
	if err := os.WriteFile(filePath, nil, 0600); err != nil {
		fmt.Fprintln(os.Stderr, "failed to truncate key file:", err)
		os.Exit(1)
	}

	if err := crypto.EncryptKeyFile(filePath, keyFile.Network, keyFile.Address, keyFile.QR, keyData, newPassword); err != nil {
		fmt.Fprintln(os.Stderr, "re-encrypt failed:", err)
		os.Exit(1)
	}

	fmt.Println("key file re-encrypted for", keyFile.Address)
}

func promptPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return raw, nil
}
