package dict

import "fmt"

// MalformedRecordError reports a source record that could not be parsed into
// the expected shape. Loaders skip and count these; they are never fatal.
type MalformedRecordError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: malformed record at line %d: %s", e.Source, e.Line, e.Reason)
}

// UnmatchedEntryError reports a Japanese entry with no usable join key
// (no kanji and no kana). The merge drops and counts these.
type UnmatchedEntryError struct {
	ID string
}

func (e *UnmatchedEntryError) Error() string {
	return fmt.Sprintf("entry %s has no usable join key", e.ID)
}
