// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides barcode generation and the start-up license gate.

# Barcodes

Student barcodes are 10 random characters from A-Z and 0-9:

	code, err := auth.GenerateBarcode()

Uniqueness is not guaranteed here; callers check the store before use.

# License Gate

A station is licensed by an HMAC-SHA256 of its serial number:

	key := auth.GenerateLicenseKey(serial, salt)
	err := auth.CheckLicense(serial, key, salt)

CheckLicense returns nil when no salt is configured. main runs it before
the store is opened, so an unlicensed station never touches the data.
*/
package auth
