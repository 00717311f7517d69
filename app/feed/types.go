package feed

// Entry is a raw feed entry. Summary keeps the entry's description and
// content markup because later stages pattern-search it for embedded
// product links and images.
type Entry struct {
	Title      string
	Link       string
	Summary    string
	SourceName string
}
