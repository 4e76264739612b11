package collector

// Kind classifies a recorded log entry.
type Kind string

// Entry kinds.
const (
	KindLog        Kind = "log"
	KindWarn       Kind = "warn"
	KindDeprecated Kind = "deprecated"
)

// Entry is one recorded log, warning, or deprecation line. The message
// is HTML-escaped at append time; consumers may embed it in markup
// directly.
type Entry struct {
	// Message is the escaped display text.
	Message string `json:"msg"`

	// Kind is the entry classification.
	Kind Kind `json:"type"`

	// Caller is the resolved label of the originating function.
	Caller string `json:"caller"`
}
