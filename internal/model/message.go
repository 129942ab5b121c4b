package model

// Message severity levels. WARNING means the mutation was applied but the
// caller should be told something unusual happened; CRITICAL means it could
// not be applied at all and the run halts.
const (
	LevelWarning  = "WARNING"
	LevelCritical = "CRITICAL"
)

// CalculationMessage is one classified finding produced during a run. IDs are
// assigned densely by the engine in global production order and are referenced
// back from each processed mutation.
type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
