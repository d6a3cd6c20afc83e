package ir

import (
	"fmt"
	"strings"
)

// FileStem builds the output file name (without extension) for r under nf.
//
// For NameYyyymmddHhmmssSnN the stem is
// <yyyymmdd>-<hhmmss>-<station>-<institution>, e.g. 20240101-161018-ISK005-knet.
func FileStem(nf NameFormat, from SourceFormat, r SeismicIR) (string, error) {
	switch nf {
	case NameYyyymmddHhmmssSnN:
		if r.Timestamp.IsZero() {
			return "", fmt.Errorf("file stem: record has no start time")
		}
		station := sanitizeStem(r.Metadata.StationCode)
		if station == "" {
			station = "unknown"
		}
		return fmt.Sprintf("%s-%s-%s",
			r.Timestamp.Format("20060102-150405"),
			station,
			from.Institution(),
		), nil
	default:
		return "", fmt.Errorf("file stem: unknown name format %q", nf)
	}
}

// sanitizeStem keeps letters, digits, '_' and '.'; everything else is dropped.
func sanitizeStem(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether nf is a known name format.
func (nf NameFormat) Valid() bool {
	return nf == NameYyyymmddHhmmssSnN
}
