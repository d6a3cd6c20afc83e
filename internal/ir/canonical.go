package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the canonical rendering of SeismicIR.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalCanonical produces compact canonical JSON for digests and snapshots.
//
// Differences from json.Marshal:
// 1. Object keys sorted bytewise
// 2. No HTML escaping (< > & are NOT escaped)
// 3. Strings are NFC normalized
// 4. NaN and infinities are rejected
// 5. Only the value shapes listed in marshalCanonical are accepted
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIR renders a SeismicIR as canonical JSON.
func MarshalIR(r SeismicIR) ([]byte, error) {
	return MarshalCanonical(r.CanonicalMap())
}

// CanonicalMap flattens r into the generic shape MarshalCanonical accepts.
// Zero-valued optional metadata is omitted.
func (r SeismicIR) CanonicalMap() map[string]any {
	meta := map[string]any{
		"unit_type":      r.Metadata.UnitType,
		"station_code":   r.Metadata.StationCode,
		"latitude":       r.Metadata.Latitude,
		"longitude":      r.Metadata.Longitude,
		"ad_coefficient": r.Metadata.ADCoefficient,
	}
	if r.Metadata.SacVersion != 0 {
		meta["sac_version"] = int(r.Metadata.SacVersion)
	}
	if r.Metadata.DeltaT != 0 {
		meta["delta_t"] = r.Metadata.DeltaT
	}
	if r.Metadata.SamplingRate != 0 {
		meta["sampling_rate"] = r.Metadata.SamplingRate
	}

	return map[string]any{
		"num_of_elements": r.NumOfElements,
		"timestamp":       formatTimestamp(r.Timestamp),
		"acceleration": map[string]any{
			"ns": nonNil(r.Acceleration.NS),
			"ew": nonNil(r.Acceleration.EW),
			"ud": nonNil(r.Acceleration.UD),
		},
		"metadata": meta,
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

func nonNil(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return marshalCanonicalString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		return marshalCanonicalFloat(buf, val)
	case []float64:
		buf.WriteByte('[')
		for i, f := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonicalFloat(buf, f); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		return marshalCanonicalObject(buf, val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// marshalCanonicalFloat follows encoding/json's float formatting so that
// snapshots stay readable: plain notation for ordinary magnitudes, exponent
// notation with a trimmed exponent otherwise.
func marshalCanonicalFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite float in canonical JSON: %v", f)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	buf.Write(b)
	return nil
}

// marshalCanonicalString writes s NFC-normalized without HTML escaping.
func marshalCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

func marshalCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := marshalCanonicalString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := marshalCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}
