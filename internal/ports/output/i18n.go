package output

// T exposes the message catalog used for console reports.
type T interface {
	// T renders the message identified by key for the given language.
	// data fills template placeholders and may be nil.
	T(lang, key string, data map[string]any) string
	// Plural renders key choosing the plural form for count. count is also
	// available to the template as .Count.
	Plural(lang, key string, count int, data map[string]any) string
}
