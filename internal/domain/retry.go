package domain

// OperationCategory names a class of operation whose failure is tracked
// for retry phrasing.
type OperationCategory string

const (
	OpSessionSave       OperationCategory = "session_save"
	OpImageGeneration   OperationCategory = "image_generation"
	OpImageModification OperationCategory = "image_modification"
	OpPrint             OperationCategory = "print"
)

// RetryState tracks consecutive failures of one operation category.
type RetryState struct {
	Category OperationCategory `json:"category"`
	Count    int               `json:"count"`
}

// Record counts a failure of category, restarting the count when the
// category changes.
func (r *RetryState) Record(category OperationCategory) {
	if r.Category != category {
		r.Category = category
		r.Count = 0
	}
	r.Count++
}
