package nppes

// SearchResponse is the parsed NPPES API response. Results is nil when the
// registry omits the key entirely.
//
// Only the keys a lookup reads are decoded, so type changes in any other
// registry field cannot fail the decode.
type SearchResponse struct {
	Results []Result `json:"results"`
}

// Result is a single provider entry.
type Result struct {
	Basic      Basic      `json:"basic"`
	Taxonomies []Taxonomy `json:"taxonomies"`
	Addresses  []Address  `json:"addresses"`
}

// Basic holds the provider's core demographic fields.
type Basic struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Credential  string `json:"credential"`
	LastUpdated string `json:"last_updated"`
}

// Taxonomy is a provider specialty classification.
type Taxonomy struct {
	Desc string `json:"desc"`
}

// Address is a practice or mailing location.
type Address struct {
	State string `json:"state"`
}
