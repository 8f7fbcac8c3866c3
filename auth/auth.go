// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLicense = errors.New("invalid license key")
	ErrMissingStation = errors.New("station serial required")
)

// BarcodeLength is the length of generated student barcodes
const BarcodeLength = 10

const barcodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBarcode creates a random barcode of uppercase letters and digits
func GenerateBarcode() (string, error) {
	b := make([]byte, BarcodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate barcode: %w", err)
	}
	// 256 % 36 != 0, so reject the top of the byte range to keep the
	// distribution uniform
	const limit = 256 - 256%len(barcodeChars)
	out := make([]byte, 0, BarcodeLength)
	for len(out) < BarcodeLength {
		for _, c := range b {
			if int(c) >= limit {
				continue
			}
			out = append(out, barcodeChars[int(c)%len(barcodeChars)])
			if len(out) == BarcodeLength {
				break
			}
		}
		if len(out) < BarcodeLength {
			if _, err := rand.Read(b); err != nil {
				return "", fmt.Errorf("failed to generate barcode: %w", err)
			}
		}
	}
	return string(out), nil
}

// GenerateLicenseKey derives the license key for a station serial.
// Deterministic, so keys can be issued offline and checked without storage.
func GenerateLicenseKey(station, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strings.TrimSpace(station)))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// CheckLicense gates start-up. An empty salt disables the check.
func CheckLicense(station, key, salt string) error {
	if salt == "" {
		return nil
	}
	if strings.TrimSpace(station) == "" {
		return ErrMissingStation
	}
	expected := GenerateLicenseKey(station, salt)
	if !hmac.Equal([]byte(strings.TrimSpace(key)), []byte(expected)) {
		return ErrInvalidLicense
	}
	return nil
}
