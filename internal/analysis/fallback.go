package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// skillVocabulary is the fixed set of technology and soft-skill terms the
// fallback heuristic matches against resume text.
var skillVocabulary = []string{
	"JavaScript", "TypeScript", "React", "Node.js", "Python", "Java", "C++",
	"HTML", "CSS", "SQL", "MongoDB", "PostgreSQL", "AWS", "Docker", "Git",
	"Angular", "Vue.js", "Express", "Django", "Flask", "Spring Boot",
	"Machine Learning", "Data Analysis", "Project Management", "Leadership",
}

var educationKeywords = []string{"Bachelor", "Master", "PhD", "Degree", "University", "College"}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*(years?|yrs?)`)

// FallbackAnalysis produces a deterministic assessment from keyword
// heuristics. Given identical inputs it returns identical results, which is
// relied on for demo/offline mode and for repeat processing of the same
// resume.
func FallbackAnalysis(resumeText, jobDescription string) *ResumeAnalysis {
	text := strings.ToLower(resumeText)
	skills := matchSkills(resumeText)
	experience := describeExperience(resumeText)
	education := describeEducation(resumeText)
	score := baseScore(text, skills)

	var strengths, weaknesses []string

	if jobDescription != "" {
		jobDesc := strings.ToLower(jobDescription)
		relevant := 0
		for _, skill := range skills {
			if strings.Contains(jobDesc, strings.ToLower(skill)) {
				relevant++
			}
		}
		score += minInt(relevant*3, 15)

		if relevant > 0 {
			strengths = append(strengths, "Skills align well with job description")
		} else {
			weaknesses = append(weaknesses, "Limited alignment with job description skills")
		}
		if strings.Contains(jobDesc, "leadership") && strings.Contains(text, "leadership") {
			strengths = append(strengths, "Leadership experience relevant to job description")
		}
		if strings.Contains(jobDesc, "project management") && strings.Contains(text, "project") {
			strengths = append(strengths, "Project management experience relevant to job description")
		}
	}

	if len(skills) > 3 {
		strengths = append(strengths, "Strong technical skill set")
	}
	if strings.Contains(text, "project") && hasLeadKeyword(text) {
		strengths = append(strengths, "Project leadership experience")
	}
	if strings.Contains(text, "team") && strings.Contains(text, "manage") {
		strengths = append(strengths, "Team management skills")
	}
	if strings.Contains(text, "certification") || strings.Contains(text, "certified") {
		strengths = append(strengths, "Professional certifications")
	}
	if strings.Contains(text, "award") || strings.Contains(text, "recognition") {
		strengths = append(strengths, "Performance recognition")
	}
	if len(strengths) == 0 {
		strengths = []string{"Technical background", "Professional experience"}
	}

	if len(skills) < 2 {
		weaknesses = append(weaknesses, "Limited technical skills mentioned")
	}
	if !strings.Contains(text, "experience") || !strings.Contains(text, "year") {
		weaknesses = append(weaknesses, "Experience details unclear")
	}
	if !strings.Contains(text, "education") && !strings.Contains(text, "degree") {
		weaknesses = append(weaknesses, "Education background not specified")
	}
	if !strings.Contains(text, "project") {
		weaknesses = append(weaknesses, "Limited project experience details")
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{
			"Could provide more specific examples",
			"Additional certifications could strengthen profile",
		}
	}

	score = clampScore(score)

	return &ResumeAnalysis{
		Skills:         skills,
		Experience:     experience,
		Education:      education,
		AIScore:        score,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Recommendation: recommendFor(score),
		Summary:        summarize(skills, experience, education, score, jobDescription != ""),
	}
}

// matchSkills substring-matches the vocabulary against resume text,
// preserving vocabulary order.
func matchSkills(resumeText string) []string {
	text := strings.ToLower(resumeText)
	var matched []string
	for _, skill := range skillVocabulary {
		if strings.Contains(text, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func describeExperience(resumeText string) string {
	if m := yearsPattern.FindStringSubmatch(resumeText); m != nil {
		return fmt.Sprintf("%s years of professional experience", m[1])
	}
	return "Experience details not clearly specified"
}

func describeEducation(resumeText string) string {
	text := strings.ToLower(resumeText)
	for _, keyword := range educationKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return fmt.Sprintf("%s level education identified", keyword)
		}
	}
	return "Education details not specified"
}

// baseScore starts at 50 and adds skill, experience, project and leadership
// bonuses. The job-description bonus is applied by the caller.
func baseScore(text string, skills []string) int {
	score := 50
	score += minInt(len(skills)*5, 30)
	if strings.Contains(text, "experience") {
		score += 10
	}
	if strings.Contains(text, "project") {
		score += 5
	}
	if strings.Contains(text, "leadership") {
		score += 5
	}
	return score
}

// hasLeadKeyword accepts both "lead" and the past tense "led", so phrasing
// like "Led a project team" counts as project leadership.
func hasLeadKeyword(text string) bool {
	return strings.Contains(text, "lead") || strings.Contains(text, "led")
}

func recommendFor(score int) string {
	switch {
	case score >= 80:
		return "Strong candidate - recommend immediate interview"
	case score >= 60:
		return "Good candidate - consider for interview with additional screening"
	default:
		return "Consider for entry-level positions or with additional training"
	}
}

func summarize(skills []string, experience, education string, score int, withJobDescription bool) string {
	skillPhrase := "potential"
	if len(skills) > 0 {
		skillPhrase = "solid technical skills"
	}

	experiencePhrase := "professional background"
	if experience != "Experience details not clearly specified" {
		experiencePhrase = strings.ToLower(experience)
	}

	educationPhrase := "Education background needs clarification"
	if education != "Education details not specified" {
		educationPhrase = fmt.Sprintf("Education: %s", education)
	}

	fit := "developing"
	if score >= 70 {
		fit = "strong"
	} else if score >= 50 {
		fit = "moderate"
	}

	summary := fmt.Sprintf(
		"Candidate demonstrates %s with %s. %s. Overall assessment indicates %s fit for the role.",
		skillPhrase, experiencePhrase, educationPhrase, fit,
	)
	if withJobDescription {
		summary += " The analysis was enhanced with the provided job description."
	}
	return summary
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
