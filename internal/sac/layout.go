// Package sac decodes the fixed word layout of SAC (Seismic Analysis Code)
// binary records.
//
// A SAC file is a sequence of 4-byte words: 70 float header words, 35 integer
// header words, 5 logical words, 48 character words and then the data
// section. The file carries no byte-order marker, so the order is inferred by
// scoring a handful of header words under both hypotheses (see Detect).
//
// Every accessor in this package reads Little-endian words. Call Normalize
// first to bring a Big-endian buffer into that form.
package sac

// SAC layout constants.
const (
	WordSize    = 4   // bytes per word
	HeaderWords = 158 // words before the data section
	HeaderBytes = HeaderWords * WordSize

	// Undefined is the SAC sentinel for unset numeric header fields.
	Undefined = -12345

	// probeWords is the number of words Detect needs (through NVHDR).
	probeWords = WordNvhdr + 1
)

// Header word indices.
const (
	WordDelta  = 0  // sampling interval in seconds
	WordDepmin = 1  // minimum dependent value
	WordDepmax = 2  // maximum dependent value
	WordScale  = 3  // amplitude scale factor
	WordB      = 5  // begin time relative to reference
	WordE      = 6  // end time relative to reference
	WordStla   = 31 // station latitude
	WordStlo   = 32 // station longitude

	WordNzyear = 70
	WordNzjday = 71
	WordNzhour = 72
	WordNzmin  = 73
	WordNzsec  = 74
	WordNzmsec = 75
	WordNvhdr  = 76 // header version, 6 or 7
	WordNpts   = 79 // samples per component
	WordIdep   = 86 // dependent variable type

	WordKstnm  = 110 // station name, 8 characters
	WordKcmpnm = 150 // component name, 8 characters

	floatWords = 70  // words 0..69 are float32
	charStart  = 110 // words 110..157 are characters
)

// Valid header versions.
const (
	Version6 = 6
	Version7 = 7
)

// unitLabels maps IDEP codes to the labels reported in FormatMetadata.
var unitLabels = map[int32]string{
	Undefined: "undefined",
	5:         "unknown",
	6:         "disp(nm)",
	7:         "Vel(nm/sec)",
	8:         "nm/sec/sec",
	50:        "volts",
}

// UnitLabel returns the label for an IDEP code, or "notfound".
func UnitLabel(idep int32) string {
	if l, ok := unitLabels[idep]; ok {
		return l
	}
	return "notfound"
}
