package importer

// ImportRequest describes a single import run
type ImportRequest struct {
	URL            string
	MaxRecords     int
	DeleteExisting bool
}

// RawCandidate is a tentative record extracted from a partner page
type RawCandidate struct {
	Name      string
	PriceText string
	ImageURL  string
	Strategy  string
}

// ItemStatus is the outcome of a single candidate
type ItemStatus string

const (
	StatusSuccess ItemStatus = "success"
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// ImportResultItem reports what happened to one candidate
type ImportResultItem struct {
	Name   string     `json:"name"`
	Price  float64    `json:"price"`
	Image  string     `json:"image"`
	Status ItemStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// ImportResult is the summary of an import run
type ImportResult struct {
	Success  bool               `json:"success"`
	Source   string             `json:"source,omitempty"`
	Imported int                `json:"imported"`
	Skipped  int                `json:"skipped"`
	Failed   int                `json:"failed"`
	Products []ImportResultItem `json:"products,omitempty"`
	Brands   []ImportResultItem `json:"brands,omitempty"`
	Message  string             `json:"message,omitempty"`
}
