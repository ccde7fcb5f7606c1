package match

import "errors"

var (
	// ErrSchema marks a source row that does not carry the expected wide
	// match layout. Extraction of that row cannot proceed.
	ErrSchema = errors.New("match schema mismatch")

	// ErrData marks a row that parses but cannot be interpreted, such as a
	// lineup without a resolvable goalkeeper.
	ErrData = errors.New("match data invalid")
)
