package services

import (
	"sort"
	"strings"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// DecisionMakerService scores executives by inferred authority to make
// purchasing decisions. It is pure computation over the deep-research
// payload: deterministic, no external calls.
type DecisionMakerService struct{}

// NewDecisionMakerService creates a new decision maker ranking service
func NewDecisionMakerService() *DecisionMakerService {
	return &DecisionMakerService{}
}

// titleScore buckets, checked in order. First match wins.
var titleScores = []struct {
	keyword string
	score   int
}{
	{"founder", 100},
	{"chief executive", 100},
	{"ceo", 100},
	{"owner", 95},
	{"president", 90},
	{"chief", 85}, // remaining C-suite: CTO, COO, CFO, CMO
	{"cto", 85},
	{"coo", 85},
	{"cfo", 85},
	{"vice president", 70},
	{"vp", 70},
	{"head of", 60},
	{"director", 55},
	{"manager", 40},
}

const defaultTitleScore = 30

// Rank scores the executives 0-100 and orders them by descending
// authority. Ties keep original list order (stable sort); the top
// entry is flagged as the primary decision maker. An empty input
// returns nil.
func (s *DecisionMakerService) Rank(executives []entities.Executive) []entities.RankedExecutive {
	if len(executives) == 0 {
		return nil
	}

	ranked := make([]entities.RankedExecutive, len(executives))
	for i, exec := range executives {
		ranked[i] = entities.RankedExecutive{
			Executive: exec,
			Score:     scoreTitle(exec.Title),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	ranked[0].IsPrimary = true
	return ranked
}

func scoreTitle(title string) int {
	normalized := strings.ToLower(title)
	for _, bucket := range titleScores {
		if containsWord(normalized, bucket.keyword) {
			return bucket.score
		}
	}
	return defaultTitleScore
}

// containsWord matches a keyword on word boundaries so that "vp" does
// not match inside an unrelated word.
func containsWord(title, keyword string) bool {
	idx := strings.Index(title, keyword)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(title[idx-1])
		afterIdx := idx + len(keyword)
		after := afterIdx >= len(title) || !isWordChar(title[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(title[idx+1:], keyword)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
