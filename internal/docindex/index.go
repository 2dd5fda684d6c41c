package docindex

// Index is an immutable, ordered sequence of Records.
// It is built once and replaced as a whole, never updated in place.
type Index struct {
	site    string
	version int
	records []Record
}

// New builds an Index from records, preserving their order.
// The input slice is copied so later changes by the caller are not visible.
func New(site string, records []Record) *Index {
	copied := make([]Record, len(records))
	copy(copied, records)
	return &Index{
		site:    site,
		version: IndexSchemaVersion,
		records: copied,
	}
}

// Site returns the documentation site this index belongs to
func (idx *Index) Site() string {
	return idx.site
}

// Version returns the index file format version
func (idx *Index) Version() int {
	return idx.version
}

// Len returns the number of records
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns a copy of the records in index order
func (idx *Index) Records() []Record {
	out := make([]Record, len(idx.records))
	copy(out, idx.records)
	return out
}

// ByID returns the first record with the given id
func (idx *Index) ByID(id string) (Record, bool) {
	for _, r := range idx.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Sections returns the unique section labels in first-seen order.
// Each entry carries the route of the first record in that section.
func (idx *Index) Sections() []Section {
	sections := make([]Section, 0)
	pos := make(map[string]int)

	for _, r := range idx.records {
		if i, ok := pos[r.Section]; ok {
			sections[i].Records++
			continue
		}
		pos[r.Section] = len(sections)
		sections = append(sections, Section{
			Label:   r.Section,
			Route:   r.Route,
			Records: 1,
		})
	}

	return sections
}

// File returns the serializable form of the index
func (idx *Index) File() File {
	return File{
		Version: idx.version,
		Site:    idx.site,
		Records: idx.Records(),
	}
}
