package step

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix leaves room for a
// future change of canonical form.
const (
	DomainRunInput = "dsa/run-input/v1"
	DomainSteps    = "dsa/steps/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunKey identifies "this algorithm on this input". Inputs that differ only
// in key order or whitespace get the same key.
func RunKey(algorithmID string, input json.RawMessage) (string, error) {
	in, err := decodeGeneric(input)
	if err != nil {
		return "", fmt.Errorf("RunKey: decode input: %w", err)
	}
	canonical, err := MarshalCanonical(map[string]any{
		"algorithm_id": algorithmID,
		"input":        in,
	})
	if err != nil {
		return "", fmt.Errorf("RunKey: %w", err)
	}
	return hashWithDomain(DomainRunInput, canonical), nil
}

// SequenceHash fingerprints a whole step sequence. Two deterministic runs of
// the same input must produce the same hash.
func SequenceHash(steps []Step) (string, error) {
	canonical, err := MarshalCanonical(steps)
	if err != nil {
		return "", fmt.Errorf("SequenceHash: %w", err)
	}
	return hashWithDomain(DomainSteps, canonical), nil
}

// CanonicalInput re-encodes an input payload in canonical form for storage.
func CanonicalInput(input json.RawMessage) ([]byte, error) {
	in, err := decodeGeneric(input)
	if err != nil {
		return nil, fmt.Errorf("canonical input: %w", err)
	}
	return MarshalCanonical(in)
}
