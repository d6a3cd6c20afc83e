package ir

import (
	"fmt"
	"strings"
)

// SourceFormat identifies the on-disk format of a raw seismic recording.
type SourceFormat string

const (
	JpNiedKnet  SourceFormat = "jp_nied_knet"
	UsScsnV2    SourceFormat = "us_scsn_v2"
	NzGeonetV1a SourceFormat = "nz_geonet_v1a"
	NzGeonetV2a SourceFormat = "nz_geonet_v2a"
	TwPalertSac SourceFormat = "tw_palert_sac"
	TkAfadAsc   SourceFormat = "tk_afad_asc"
)

// TargetFormat identifies the report format a conversion produces.
type TargetFormat string

const (
	JpJmaCsv     TargetFormat = "jp_jma_csv"
	JpStera3dTxt TargetFormat = "jp_stera3d_txt"
)

// AccAxis is one acceleration component. The zero value means "no axis tag".
type AccAxis string

const (
	AxisNone AccAxis = ""
	AxisNS   AccAxis = "ns"
	AxisEW   AccAxis = "ew"
	AxisUD   AccAxis = "ud"
)

// NameFormat describes the naming convention for emitted files.
type NameFormat string

// NameYyyymmddHhmmssSnN names files like 20240101-161018-ISK005-knet.
const NameYyyymmddHhmmssSnN NameFormat = "yyyymmdd-hhmmss-sn-n"

// PayloadKind tells the loader how a source format is read from disk.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadBinary
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "text"
	case PayloadBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// catalogEntry is the static catalog entry for one source format.
type catalogEntry struct {
	extensions  []string
	multiAxis   bool
	payload     PayloadKind
	institution string
}

// entry is the exhaustive catalog. Adding a SourceFormat constant without a
// case here makes Valid report false for it everywhere.
func (f SourceFormat) entry() (catalogEntry, bool) {
	switch f {
	case JpNiedKnet:
		return catalogEntry{[]string{"ns", "ew", "ud"}, true, PayloadText, "knet"}, true
	case UsScsnV2:
		return catalogEntry{[]string{"v2"}, false, PayloadText, "scsn"}, true
	case NzGeonetV1a:
		return catalogEntry{[]string{"v1a"}, false, PayloadText, "geonet"}, true
	case NzGeonetV2a:
		return catalogEntry{[]string{"v2a"}, false, PayloadText, "geonet"}, true
	case TwPalertSac:
		return catalogEntry{[]string{"sac"}, false, PayloadBinary, "palert"}, true
	case TkAfadAsc:
		return catalogEntry{[]string{"asc"}, true, PayloadText, "afad"}, true
	default:
		return catalogEntry{}, false
	}
}

// SourceFormats lists every known source format in declaration order.
func SourceFormats() []SourceFormat {
	return []SourceFormat{JpNiedKnet, UsScsnV2, NzGeonetV1a, NzGeonetV2a, TwPalertSac, TkAfadAsc}
}

// ParseSourceFormat converts a config string into a SourceFormat.
func ParseSourceFormat(s string) (SourceFormat, error) {
	f := SourceFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown source format %q", s)
	}
	return f, nil
}

// Valid reports whether f is a cataloged source format.
func (f SourceFormat) Valid() bool {
	_, ok := f.entry()
	return ok
}

// Extensions returns the lowercase file extensions accepted for f.
func (f SourceFormat) Extensions() []string {
	s, _ := f.entry()
	return append([]string(nil), s.extensions...)
}

// AcceptsExtension reports whether ext (without the dot, any case) is allowed for f.
func (f SourceFormat) AcceptsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	s, _ := f.entry()
	for _, e := range s.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// MultiAxis reports whether f stores each acceleration component in its own file.
func (f SourceFormat) MultiAxis() bool {
	s, _ := f.entry()
	return s.multiAxis
}

// PayloadKind reports how files of format f are loaded.
func (f SourceFormat) PayloadKind() PayloadKind {
	s, _ := f.entry()
	return s.payload
}

// Institution is the short network name used in emitted file names.
func (f SourceFormat) Institution() string {
	s, _ := f.entry()
	return s.institution
}

// TargetFormats lists every known target format.
func TargetFormats() []TargetFormat {
	return []TargetFormat{JpJmaCsv, JpStera3dTxt}
}

// Valid reports whether t is a known target format.
func (t TargetFormat) Valid() bool {
	switch t {
	case JpJmaCsv, JpStera3dTxt:
		return true
	default:
		return false
	}
}

// RequiredAxes returns the full axis set a multi-axis group must supply.
func RequiredAxes() []AccAxis {
	return []AccAxis{AxisNS, AxisEW, AxisUD}
}

// Valid reports whether a is one of the three axis tags.
func (a AccAxis) Valid() bool {
	switch a {
	case AxisNS, AxisEW, AxisUD:
		return true
	default:
		return false
	}
}
