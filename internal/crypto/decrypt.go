package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"tusk/internal/model"

	"golang.org/x/crypto/scrypt"
)

// DecryptKeyFile reads and decrypts a .tusk file
// password must be []byte for security (caller should zero it after use)
func DecryptKeyFile(filePath string, password []byte) (*model.KeyFile, *model.KeyData, error) {
	// Check if file exists
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.New("file does not exist")
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Check that file is not empty
	if fileInfo.Size() == 0 {
		return nil, nil, errors.New("file is empty")
	}

	// Read file
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Deserialize file structure
	var keyFile model.KeyFile
	if err := json.Unmarshal(fileData, &keyFile); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key file: %w", err)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(keyFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(keyFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(keyFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Decrypt
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	// Deserialize key data
	var keyData model.KeyData
	if err := json.Unmarshal(plaintext, &keyData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key data: %w", err)
	}

	return &keyFile, &keyData, nil
}

// ReadKeyFileAddress reads only the address from a .tusk file (without decryption)
func ReadKeyFileAddress(filePath string) (string, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("file does not exist")
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return "", errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var keyFile model.KeyFile
	if err := json.Unmarshal(fileData, &keyFile); err != nil {
		return "", fmt.Errorf("failed to unmarshal key file: %w", err)
	}

	return keyFile.Address, nil
}
