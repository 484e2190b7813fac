package source

// FileTable maps front-end file IDs to display paths.
//
// The table is built once from the declaration snapshot and is read-only
// afterwards, so no locking is needed.
type FileTable struct {
	byID []string // byID[0] = "" for NoFileID
}

// NewFileTable builds a table from paths indexed by FileID-1.
func NewFileTable(paths []string) *FileTable {
	byID := make([]string, len(paths)+1)
	copy(byID[1:], paths)
	return &FileTable{byID: byID}
}

// Path returns the display path for id, or "<unknown>" for invalid IDs.
func (t *FileTable) Path(id FileID) string {
	if t == nil || int(id) >= len(t.byID) || id == NoFileID {
		return "<unknown>"
	}
	return t.byID[id]
}

// Len returns the number of registered files, the sentinel excluded.
func (t *FileTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID) - 1
}

// Paths returns the registered paths in FileID order, sentinel excluded.
func (t *FileTable) Paths() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.byID)-1)
	copy(out, t.byID[1:])
	return out
}
