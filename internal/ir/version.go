package ir

// Version constants for the IR schema and the tool.
const (
	// IRVersion is the SeismicIR schema version.
	IRVersion = "1"

	// ToolVersion is the naifuru version.
	ToolVersion = "0.1.0"
)
