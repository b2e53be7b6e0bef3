package models

// UploadSession is a point-in-time copy of the upload state.
type UploadSession struct {
	Files        []UploadedFile    `json:"files"`
	CurrentIndex int               `json:"currentIndex"` // -1 when no file is current
	Error        string            `json:"error,omitempty"`
	Busy         bool              `json:"busy"`
	Result       *ConversionResult `json:"result,omitempty"`
}

// CurrentFile returns the file the current index points at.
func (s UploadSession) CurrentFile() (UploadedFile, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Files) {
		return UploadedFile{}, false
	}
	return s.Files[s.CurrentIndex], true
}

// TotalSize sums the sizes of all files in the session.
func (s UploadSession) TotalSize() int64 {
	var total int64
	for _, f := range s.Files {
		total += f.Size
	}
	return total
}
