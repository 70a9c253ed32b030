package entities

import (
	"encoding/json"

	"xcmerge/pkg/jsonobj"
)

// Members holds the raw members of a catalog record in document order.
// Modelled fields are written back over it on encode; everything else is
// passed through untouched.
type Members = jsonobj.Map[json.RawMessage]

// Catalog is the "strings" table of a string catalog document plus the
// document's other top-level members (sourceLanguage, version, ...).
type Catalog struct {
	Strings *jsonobj.Map[*TranslationEntry]
	Members *Members
}

// TranslationEntry is the record stored for one source phrase.
type TranslationEntry struct {
	Comment         string
	ExtractionState string
	// Localizations is nil when the entry has no "localizations" member,
	// which is not the same as an empty one.
	Localizations *jsonobj.Map[*Localization]
	Members       *Members
}

// Localization is one locale's record. StringUnit is nil for plural or
// device variations.
type Localization struct {
	StringUnit *LocalizationUnit
	Members    *Members
}

// LocalizationUnit is the translated text and its state tag.
type LocalizationUnit struct {
	State   string
	Value   string
	Members *Members
}

func NewCatalog() *Catalog {
	return &Catalog{
		Strings: jsonobj.New[*TranslationEntry](),
		Members: jsonobj.New[json.RawMessage](),
	}
}

// Len returns the number of phrases.
func (c *Catalog) Len() int {
	return c.Strings.Len()
}

// Entry returns the record for phrase, if any.
func (c *Catalog) Entry(phrase string) (*TranslationEntry, bool) {
	return c.Strings.Get(phrase)
}

// Localization returns the record for locale, if the entry has one.
func (e *TranslationEntry) Localization(locale string) (*Localization, bool) {
	return e.Localizations.Get(locale)
}

// NewStringLocalization wraps a unit with the given state and value.
func NewStringLocalization(state, value string) *Localization {
	return &Localization{
		StringUnit: &LocalizationUnit{State: state, Value: value},
	}
}
