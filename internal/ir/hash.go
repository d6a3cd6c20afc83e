package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainPayload = "naifuru/payload/v1"
	DomainIR      = "naifuru/ir/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PayloadDigest identifies the loaded content of a file.
// Text payloads hash their lines joined with '\n'.
func PayloadDigest(p *Payload) string {
	if p == nil {
		return ""
	}
	if p.Kind == PayloadBinary {
		return hashWithDomain(DomainPayload, p.Bytes)
	}
	var n int
	for _, l := range p.Lines {
		n += len(l) + 1
	}
	data := make([]byte, 0, n)
	for _, l := range p.Lines {
		data = append(data, l...)
		data = append(data, '\n')
	}
	return hashWithDomain(DomainPayload, data)
}

// IRDigest computes the content digest of an assembled SeismicIR.
func IRDigest(r SeismicIR) (string, error) {
	canonical, err := MarshalIR(r)
	if err != nil {
		return "", fmt.Errorf("IRDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIR, canonical), nil
}
