package pgmt

import "fmt"

// ChecksumMismatchError is returned by Reconcile when a previously applied
// migration's checksum no longer matches the content on disk.
type ChecksumMismatchError struct {
	FileName        string
	FileChecksum    int32
	AppliedChecksum int32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf(
		"checksum mismatch for %s: file checksum %d does not match applied checksum %d",
		e.FileName, e.FileChecksum, e.AppliedChecksum,
	)
}

// MissingPlaceholderError is returned by Expand when a script references
// ${name} and name is absent from the Placeholders map.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing placeholder: %s", e.Name)
}
