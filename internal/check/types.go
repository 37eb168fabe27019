// Package check inspects a site tree for pages and references that the
// server would fail to resolve.
package check

// Severity grades a Finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding represents a single problem found while checking the site.
// It names the page it was found on and, for reference problems, the
// attribute value that failed to resolve.
type Finding struct {
	// Page is the URL of the page the finding belongs to, empty for
	// site-wide findings.
	Page string `json:"page,omitempty"`
	// Severity is error, warning or info.
	Severity Severity `json:"severity"`
	// Rule is a short identifier of the check that produced the finding.
	Rule string `json:"rule"`
	// Message describes the problem.
	Message string `json:"message"`
	// Ref is the src or href value involved, if any.
	Ref string `json:"ref,omitempty"`
}

// Report is the outcome of one check run.
type Report struct {
	// Pages is the number of page directories inspected.
	Pages int `json:"pages"`
	// Findings are ordered by page, then by the order they were found in.
	Findings []Finding `json:"findings"`
}

// Errors returns how many findings have error severity.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Options contains the parameters of a check run that are not part of the
// site configuration.
type Options struct {
	// UserAgent selects the robots.txt group pages are tested against.
	UserAgent string
	// JSONOutput specifies whether to print the report as JSON instead of
	// human-readable text.
	JSONOutput bool
}
