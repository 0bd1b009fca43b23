package pgmt

// Reconcile compares the sorted, classified V-migrations found on disk
// against the history rows already recorded, in rank order, and returns
// the suffix of files that has not yet been applied.
//
// History is expected to be a checksum-equal prefix of files. A
// mismatch at any overlapping rank is fatal. If history has more rows
// than there are files (a file was deleted from disk since it was
// applied), that's tolerated rather than rejected: there's simply
// nothing left to apply.
func Reconcile(files []Migration, history []HistoryRow) ([]Migration, error) {
	overlap := len(history)
	if overlap > len(files) {
		overlap = len(files)
	}

	for i := 0; i < overlap; i++ {
		f := files[i]
		h := history[i]

		var applied int32
		if h.Checksum != nil {
			applied = *h.Checksum
		}
		if h.Checksum == nil || applied != f.Checksum {
			return nil, &ChecksumMismatchError{
				FileName:        f.FileName,
				FileChecksum:    f.Checksum,
				AppliedChecksum: applied,
			}
		}
	}

	if len(history) >= len(files) {
		return nil, nil
	}
	return files[len(history):], nil
}
