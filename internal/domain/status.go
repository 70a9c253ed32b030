package domain

// Catalog tags written by the merger.
const (
	ExtractionStateManual = "manual"
	StateTranslated       = "translated"
)

// DefaultLocale is the target locale when none is configured.
const DefaultLocale = "sv"
