// Package billing parses and authenticates payment provider webhook events.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSignature covers every verification failure: missing or malformed
// header, undecodable digest, or a mac mismatch. Handlers must answer all of
// them identically so the response does not reveal which check failed.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// VerifySignature checks the provider's signature header against the exact
// raw request body. The header carries a timestamp and one or more v1 hex
// digests: "t=<unix>,v1=<hmac-sha256(secret, '<unix>.<body>')>".
func VerifySignature(payload []byte, header, secret string) error {
	var timestamp string
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		sig, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign computes the signature header for a payload. Used by tests and by the
// dev seed tooling to produce deliverable events.
func Sign(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}
