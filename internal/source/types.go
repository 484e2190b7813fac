// Package source carries source locations through the translation engine.
//
// The engine itself never opens host-language files: the front end resolves
// every declaration and expression to a Span before handing the program over,
// and the engine only threads those spans into diagnostics. FileTable maps the
// front end's file IDs back to display paths for rendering.
package source

// FileID identifies a file registered by the front end.
type FileID uint32

// NoFileID is the zero sentinel for FileID.
const NoFileID FileID = 0

// IsValid returns true if the ID refers to a registered file.
func (id FileID) IsValid() bool { return id != NoFileID }
