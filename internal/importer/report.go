package importer

// Reporter accumulates per-candidate outcomes in source order
type Reporter struct {
	items []ImportResultItem
}

// Success records a created record
func (r *Reporter) Success(name string, price float64, image string) {
	r.add(name, price, image, StatusSuccess, "")
}

// Skipped records a duplicate
func (r *Reporter) Skipped(name string, price float64, image, reason string) {
	r.add(name, price, image, StatusSkipped, reason)
}

// Failed records a candidate that could not be imported
func (r *Reporter) Failed(name string, price float64, image, message string) {
	r.add(name, price, image, StatusError, message)
}

func (r *Reporter) add(name string, price float64, image string, status ItemStatus, message string) {
	r.items = append(r.items, ImportResultItem{
		Name:   name,
		Price:  price,
		Image:  image,
		Status: status,
		Error:  message,
	})
}

// Items returns the recorded items
func (r *Reporter) Items() []ImportResultItem {
	return r.items
}

// Result counts the recorded items. Imported+Skipped+Failed always equals
// the number of recorded items; the caller attaches the items to the
// products or brands field.
func (r *Reporter) Result() ImportResult {
	result := ImportResult{Success: true}
	for _, item := range r.items {
		switch item.Status {
		case StatusSuccess:
			result.Imported++
		case StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}
	return result
}
