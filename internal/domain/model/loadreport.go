package model

// LoadReport tells the caller how a persisted document was read. Detail is
// set only for LoadCorrupt and describes the parse failure.
type LoadReport struct {
	Path   string
	Status LoadStatus
	Detail string
}

// Recovered reports whether defaults were substituted for an unreadable
// document.
func (r LoadReport) Recovered() bool {
	return r.Status == LoadCorrupt
}
