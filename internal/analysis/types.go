// Package analysis scores candidate resumes, via a language model when one
// is configured and via a deterministic keyword heuristic otherwise.
package analysis

// ResumeAnalysis is the assessment attached to a candidate record.
type ResumeAnalysis struct {
	Skills         []string `json:"skills"`
	Experience     string   `json:"experience"`
	Education      string   `json:"education"`
	AIScore        int      `json:"aiScore"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
	Summary        string   `json:"summary"`
}
