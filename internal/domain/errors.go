package domain

import "errors"

// Domain errors.
var (
	ErrLoad            = errors.New("catalog could not be loaded")
	ErrPersist         = errors.New("catalog could not be written")
	ErrCatalogShape    = errors.New("catalog is not an object with a \"strings\" object")
	ErrEmptyRequest    = errors.New("update request has no translations")
	ErrInvalidLocale   = errors.New("invalid locale code")
	ErrInvalidPolicy   = errors.New("unknown conflict policy")
	ErrInvalidValue    = errors.New("translation must be a non-empty string")
	ErrUnknownBatch    = errors.New("unknown translation batch")
	ErrUnknownFormat   = errors.New("unsupported request file format")
	ErrHistoryDisabled = errors.New("history database is not configured")
	ErrInvalidRunID    = errors.New("invalid run id")
)

// codes maps each domain error to a stable identifier used for user-facing
// messages. Order matters: ErrCatalogShape is always wrapped in ErrLoad and
// must win.
var codes = []struct {
	err  error
	code string
}{
	{ErrCatalogShape, "catalog_shape"},
	{ErrLoad, "catalog_load"},
	{ErrPersist, "catalog_persist"},
	{ErrEmptyRequest, "empty_request"},
	{ErrInvalidLocale, "invalid_locale"},
	{ErrInvalidPolicy, "invalid_policy"},
	{ErrInvalidValue, "invalid_value"},
	{ErrUnknownBatch, "unknown_batch"},
	{ErrUnknownFormat, "unknown_format"},
	{ErrHistoryDisabled, "history_disabled"},
	{ErrInvalidRunID, "invalid_run_id"},
}

// Code returns the identifier of the first domain error found in err's chain,
// or "" when err is not a domain error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
