package filehandler

// FilterBySize filters out files whose byte size exceeds maxSizeMB megabytes.
// A file exactly at the limit passes; strictly larger files are rejected.
// Input order is preserved among accepted files and the input slice is not
// mutated. The caller is responsible for warning the user when rejected > 0.
func FilterBySize(files []*ImageFile, maxSizeMB float64) (accepted []*ImageFile, rejected int) {
	maxBytes := int64(maxSizeMB * 1024 * 1024)

	accepted = make([]*ImageFile, 0, len(files))
	for _, f := range files {
		if f.Size > maxBytes {
			rejected++
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}
