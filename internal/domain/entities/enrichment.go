package entities

// Review is a single customer review from the listing lookup
type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// ReputationData is the listing lookup payload: public rating, reviews
// and photos for the company
type ReputationData struct {
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Reviews     []Review `json:"reviews,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}

// Executive is a person surfaced by company deep-research
type Executive struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// CompanyData is the deep-research payload
type CompanyData struct {
	Size         *string     `json:"size,omitempty"`
	Revenue      *string     `json:"revenue,omitempty"`
	Funding      *string     `json:"funding,omitempty"`
	FoundedYear  *int        `json:"founded_year,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Founders     []string    `json:"founders,omitempty"`
	Executives   []Executive `json:"executives,omitempty"`
	Competitors  []string    `json:"competitors,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
}

// RankedExecutive is an executive with an inferred authority score
type RankedExecutive struct {
	Executive
	Score     int  `json:"score"`
	Rank      int  `json:"rank"`
	IsPrimary bool `json:"is_primary"`
}

// SummaryData is the AI-generated closing payload
type SummaryData struct {
	Summary     string   `json:"summary"`
	Icebreakers []string `json:"icebreakers,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// EnrichmentResult is the merged profile for one enrichment run. Each
// section is owned by exactly one source; a nil section means that
// source provided nothing, which is a valid outcome rather than an
// error. The struct is never mutated after the run finishes.
type EnrichmentResult struct {
	Reputation     *ReputationData   `json:"reputation,omitempty"`
	Company        *CompanyData      `json:"company,omitempty"`
	SocialProfiles map[string]string `json:"social_profiles,omitempty"`
	DecisionMakers []RankedExecutive `json:"decision_makers,omitempty"`
	Summary        *SummaryData      `json:"summary,omitempty"`
}

// SectionFlags reports which optional sections ended up populated. The
// complete progress event carries these booleans instead of the payload
// to keep the wire frame small.
func (r *EnrichmentResult) SectionFlags() map[string]bool {
	if r == nil {
		return map[string]bool{
			"reputation":      false,
			"company":         false,
			"social_profiles": false,
			"decision_makers": false,
			"summary":         false,
		}
	}
	return map[string]bool{
		"reputation":      r.Reputation != nil,
		"company":         r.Company != nil,
		"social_profiles": len(r.SocialProfiles) > 0,
		"decision_makers": len(r.DecisionMakers) > 0,
		"summary":         r.Summary != nil,
	}
}

// IsEmpty reports whether no source contributed anything
func (r *EnrichmentResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Reputation == nil && r.Company == nil &&
		len(r.SocialProfiles) == 0 && len(r.DecisionMakers) == 0 && r.Summary == nil
}
