// Package xcstrings reads and writes Xcode string catalog documents.
package xcstrings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/pkg/jsonobj"
)

// Layout records how a document was formatted so it can be written back
// the same way.
type Layout struct {
	Style           jsonobj.Style
	TrailingNewline bool
}

const indent = "  "

// Decode parses a catalog document. Member order and members the catalog
// model does not cover are kept.
func Decode(data []byte) (*entities.Catalog, Layout, error) {
	layout := Layout{
		Style:           jsonobj.DetectStyle(data),
		TrailingNewline: bytes.HasSuffix(data, []byte("\n")),
	}

	top := jsonobj.New[json.RawMessage]()
	if err := json.Unmarshal(data, top); err != nil {
		if errors.Is(err, jsonobj.ErrNotObject) {
			return nil, layout, fmt.Errorf("%w: top level", domain.ErrCatalogShape)
		}
		return nil, layout, err
	}

	rawStrings, ok := top.Get("strings")
	if !ok || isNull(rawStrings) {
		return nil, layout, fmt.Errorf("%w: missing \"strings\"", domain.ErrCatalogShape)
	}
	table, err := decodeObject(rawStrings, "strings")
	if err != nil {
		return nil, layout, err
	}

	c := &entities.Catalog{
		Strings: jsonobj.New[*entities.TranslationEntry](),
		Members: top,
	}
	for phrase, raw := range table.All() {
		entry, err := decodeEntry(phrase, raw)
		if err != nil {
			return nil, layout, err
		}
		c.Strings.Set(phrase, entry)
	}
	return c, layout, nil
}

// Encode renders c with the given layout.
func Encode(c *entities.Catalog, layout Layout) ([]byte, error) {
	compact, err := encodeCatalog(c)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jsonobj.Indent(&buf, compact, indent, layout.Style); err != nil {
		return nil, err
	}
	if layout.TrailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func decodeEntry(phrase string, raw json.RawMessage) (*entities.TranslationEntry, error) {
	members, err := decodeObject(raw, "entry "+quote(phrase))
	if err != nil {
		return nil, err
	}
	e := &entities.TranslationEntry{Members: members}
	if e.Comment, err = stringMember(members, "comment", phrase); err != nil {
		return nil, err
	}
	if e.ExtractionState, err = stringMember(members, "extractionState", phrase); err != nil {
		return nil, err
	}

	rawLocs, ok := members.Get("localizations")
	if !ok || isNull(rawLocs) {
		return e, nil
	}
	locs, err := decodeObject(rawLocs, "localizations of "+quote(phrase))
	if err != nil {
		return nil, err
	}
	e.Localizations = jsonobj.New[*entities.Localization]()
	for locale, rawLoc := range locs.All() {
		loc, err := decodeLocalization(phrase, locale, rawLoc)
		if err != nil {
			return nil, err
		}
		e.Localizations.Set(locale, loc)
	}
	return e, nil
}

func decodeLocalization(phrase, locale string, raw json.RawMessage) (*entities.Localization, error) {
	where := fmt.Sprintf("localization %s of %s", locale, quote(phrase))
	members, err := decodeObject(raw, where)
	if err != nil {
		return nil, err
	}
	loc := &entities.Localization{Members: members}

	rawUnit, ok := members.Get("stringUnit")
	if !ok || isNull(rawUnit) {
		return loc, nil
	}
	unitMembers, err := decodeObject(rawUnit, "stringUnit of "+where)
	if err != nil {
		return nil, err
	}
	unit := &entities.LocalizationUnit{Members: unitMembers}
	if unit.State, err = stringMember(unitMembers, "state", phrase); err != nil {
		return nil, err
	}
	if unit.Value, err = stringMember(unitMembers, "value", phrase); err != nil {
		return nil, err
	}
	loc.StringUnit = unit
	return loc, nil
}

func encodeCatalog(c *entities.Catalog) ([]byte, error) {
	top := cloneMembers(c.Members)
	table := jsonobj.New[json.RawMessage]()
	for phrase, e := range c.Strings.All() {
		raw, err := encodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", quote(phrase), err)
		}
		table.Set(phrase, raw)
	}
	raw, err := table.MarshalJSON()
	if err != nil {
		return nil, err
	}
	top.Set("strings", raw)
	return top.MarshalJSON()
}

func encodeEntry(e *entities.TranslationEntry) (json.RawMessage, error) {
	if e == nil {
		return json.RawMessage("{}"), nil
	}
	m := cloneMembers(e.Members)
	if err := setString(m, "comment", e.Comment); err != nil {
		return nil, err
	}
	if err := setString(m, "extractionState", e.ExtractionState); err != nil {
		return nil, err
	}
	if e.Localizations != nil {
		locs := jsonobj.New[json.RawMessage]()
		for locale, loc := range e.Localizations.All() {
			raw, err := encodeLocalization(loc)
			if err != nil {
				return nil, fmt.Errorf("localization %s: %w", locale, err)
			}
			locs.Set(locale, raw)
		}
		raw, err := locs.MarshalJSON()
		if err != nil {
			return nil, err
		}
		m.Set("localizations", raw)
	}
	return m.MarshalJSON()
}

func encodeLocalization(loc *entities.Localization) (json.RawMessage, error) {
	if loc == nil {
		return json.RawMessage("{}"), nil
	}
	m := cloneMembers(loc.Members)
	if u := loc.StringUnit; u != nil {
		um := cloneMembers(u.Members)
		if err := forceString(um, "state", u.State); err != nil {
			return nil, err
		}
		if err := forceString(um, "value", u.Value); err != nil {
			return nil, err
		}
		raw, err := um.MarshalJSON()
		if err != nil {
			return nil, err
		}
		m.Set("stringUnit", raw)
	}
	return m.MarshalJSON()
}

func decodeObject(raw json.RawMessage, where string) (*entities.Members, error) {
	m := jsonobj.New[json.RawMessage]()
	if isNull(raw) {
		return nil, fmt.Errorf("%w: %s is null", domain.ErrCatalogShape, where)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		if errors.Is(err, jsonobj.ErrNotObject) {
			return nil, fmt.Errorf("%w: %s is not an object", domain.ErrCatalogShape, where)
		}
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return m, nil
}

func stringMember(m *entities.Members, key, phrase string) (string, error) {
	raw, ok := m.Get(key)
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q of %s is not a string", domain.ErrCatalogShape, key, quote(phrase))
	}
	return s, nil
}

// setString writes s. An empty s leaves an absent, null or empty member as
// it was.
func setString(m *entities.Members, key, s string) error {
	if s == "" {
		raw, ok := m.Get(key)
		if !ok || isNull(raw) || string(raw) == `""` {
			return nil
		}
	}
	return forceString(m, key, s)
}

// forceString writes s. A member that already decodes to s keeps its
// original escaping.
func forceString(m *entities.Members, key, s string) error {
	if old, ok := m.Get(key); ok {
		var cur string
		if json.Unmarshal(old, &cur) == nil && cur == s {
			return nil
		}
	}
	raw, err := jsonobj.Marshal(s)
	if err != nil {
		return err
	}
	m.Set(key, raw)
	return nil
}

func cloneMembers(m *entities.Members) *entities.Members {
	if m == nil {
		return jsonobj.New[json.RawMessage]()
	}
	return m.Clone()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
