package configdiff

// Summary counts sections by status.
type Summary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Summarize counts sections by status.
func Summarize(sections []Section) Summary {
	var s Summary
	for _, sec := range sections {
		switch sec.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusModified:
			s.Modified++
		case StatusUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// Changed returns the number of sections that are not unchanged.
func (s Summary) Changed() int {
	return s.Added + s.Removed + s.Modified
}

// HasChanges reports whether any section is added, removed, or modified.
func HasChanges(sections []Section) bool {
	return Summarize(sections).Changed() > 0
}
