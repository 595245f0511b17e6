package input

// Row is one validated unit of work. Immutable once constructed.
type Row struct {
	// Index is the row's stable ordinal position in the original input.
	Index int
	// PIDRaw is the identifier exactly as entered.
	PIDRaw string
	// PIDSanitized is the filesystem-safe derivation of PIDRaw.
	PIDSanitized string
	// VideoURL is a validated http/https URL.
	VideoURL string
}

// ParseFailure records a row rejected before processing.
type ParseFailure struct {
	Index  int
	PIDRaw string
	Error  string
}
