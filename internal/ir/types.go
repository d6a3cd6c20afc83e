package ir

import "time"

// Payload is the loaded content of one file: either text lines or raw bytes.
type Payload struct {
	Kind  PayloadKind
	Lines []string
	Bytes []byte
}

// TextPayload wraps an ordered sequence of lines.
func TextPayload(lines []string) *Payload {
	return &Payload{Kind: PayloadText, Lines: lines}
}

// BinaryPayload wraps a raw byte sequence.
func BinaryPayload(b []byte) *Payload {
	return &Payload{Kind: PayloadBinary, Bytes: b}
}

// ProcessableUnit is one physical file of one group of one conversion,
// flattened in config order. Data is nil until a loader populates it.
//
// An extractor takes exclusive ownership of Data for the duration of one
// Extract call and may rewrite Bytes in place.
type ProcessableUnit struct {
	Conversion string
	From       SourceFormat
	To         TargetFormat
	GroupIndex int
	FileIndex  int
	AccAxis    AccAxis
	Path       string
	Data       *Payload
}

// HeaderBearing reports whether this unit carries the group's header
// metadata. Only the first file of a group does.
func (u ProcessableUnit) HeaderBearing() bool {
	return u.FileIndex == 0
}

// SacVersion is the SAC header version (NVHDR). Zero means not a SAC record.
type SacVersion int

const (
	SacVersion6 SacVersion = 6
	SacVersion7 SacVersion = 7
)

// SeismicIR is the unified record every decoder produces.
type SeismicIR struct {
	NumOfElements int            `json:"num_of_elements"`
	Timestamp     time.Time      `json:"timestamp"`
	Acceleration  Acceleration   `json:"acceleration"`
	Metadata      FormatMetadata `json:"metadata"`
}

// Acceleration holds the three component series.
type Acceleration struct {
	NS []float64 `json:"ns"`
	EW []float64 `json:"ew"`
	UD []float64 `json:"ud"`
}

// Series returns the series stored for axis.
func (a Acceleration) Series(axis AccAxis) []float64 {
	switch axis {
	case AxisNS:
		return a.NS
	case AxisEW:
		return a.EW
	case AxisUD:
		return a.UD
	default:
		return nil
	}
}

// Set stores series on axis. Unknown axes are ignored.
func (a *Acceleration) Set(axis AccAxis, series []float64) {
	switch axis {
	case AxisNS:
		a.NS = series
	case AxisEW:
		a.EW = series
	case AxisUD:
		a.UD = series
	}
}

// FormatMetadata carries the fields that differ between source formats.
type FormatMetadata struct {
	UnitType      string     `json:"unit_type"`
	SacVersion    SacVersion `json:"sac_version,omitempty"`
	DeltaT        float64    `json:"delta_t,omitempty"`
	SamplingRate  int        `json:"sampling_rate,omitempty"`
	StationCode   string     `json:"station_code"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	ADCoefficient float64    `json:"ad_coefficient"`
}
