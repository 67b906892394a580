package domain

import (
	"strings"

	"golang.org/x/net/html"
)

type ApprovalTier string

const (
	TierGreen  ApprovalTier = "GREEN"
	TierYellow ApprovalTier = "YELLOW"
	TierRed    ApprovalTier = "RED"
)

// rank orders tiers so that the strictest match wins.
func (t ApprovalTier) rank() int {
	switch t {
	case TierRed:
		return 2
	case TierYellow:
		return 1
	default:
		return 0
	}
}

func (t ApprovalTier) Valid() bool {
	return t == TierGreen || t == TierYellow || t == TierRed
}

const FlagComplianceReview = "compliance_review"

// ApprovalRule matches Pattern as a case-insensitive substring. Tier may be
// empty for rules that only raise a flag.
type ApprovalRule struct {
	Pattern string       `yaml:"pattern" json:"pattern"`
	Tier    ApprovalTier `yaml:"tier,omitempty" json:"tier,omitempty"`
	Flag    string       `yaml:"flag,omitempty" json:"flag,omitempty"`
}

type RuleSet struct {
	Rules []ApprovalRule
}

type ContentAnalysis struct {
	Tier                     ApprovalTier `json:"tier"`
	RiskFactors              []string     `json:"riskFactors"`
	Flags                    []string     `json:"flags"`
	WordCount                int          `json:"wordCount"`
	HasLinks                 bool         `json:"hasLinks"`
	Sentiment                string       `json:"sentiment"`
	Confidence               float64      `json:"confidence"`
	RequiresComplianceReview bool         `json:"requiresComplianceReview"`
}

const (
	defaultSentiment  = "neutral"
	defaultConfidence = 0.85
)

// Formatting tags that sit inside words; every other tag separates text.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "em": true, "font": true, "i": true,
	"mark": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "u": true,
}

// visibleText returns the text a reader would see, with entities decoded,
// and whether the markup contains an anchor. Input that is not HTML passes
// through unchanged apart from entity decoding.
func visibleText(content string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(content))

	var sb strings.Builder
	hasAnchor := false
	hidden := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return sb.String(), hasAnchor
		case html.TextToken:
			if hidden == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "a" && tt != html.EndTagToken:
				hasAnchor = true
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					hidden++
				} else if tt == html.EndTagToken && hidden > 0 {
					hidden--
				}
			}
			if !inlineTags[tag] {
				sb.WriteByte(' ')
			}
		}
	}
}

func containsURL(text string) bool {
	return strings.Contains(text, "http://") || strings.Contains(text, "https://") || strings.Contains(text, "www.")
}

// Classify assigns an approval tier to message content. It is pure: the same
// rule set and content always yield the same analysis.
func (rs RuleSet) Classify(content string) ContentAnalysis {
	visible, hasAnchor := visibleText(content)
	// Collapsing whitespace lets multi-word patterns match across line
	// breaks, tag boundaries and non-breaking spaces.
	words := strings.Fields(strings.ToLower(visible))
	text := strings.Join(words, " ")

	analysis := ContentAnalysis{
		Tier:        TierGreen,
		RiskFactors: []string{},
		Flags:       []string{},
		WordCount:   len(words),
		HasLinks:    hasAnchor || containsURL(text),
		Sentiment:   defaultSentiment,
		Confidence:  defaultConfidence,
	}

	seenFlags := make(map[string]bool)
	for _, rule := range rs.Rules {
		pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))
		if pattern == "" || !strings.Contains(text, pattern) {
			continue
		}
		if rule.Tier.Valid() && rule.Tier != TierGreen {
			analysis.RiskFactors = append(analysis.RiskFactors, pattern)
			if rule.Tier.rank() > analysis.Tier.rank() {
				analysis.Tier = rule.Tier
			}
		}
		if rule.Flag != "" && !seenFlags[rule.Flag] {
			seenFlags[rule.Flag] = true
			analysis.Flags = append(analysis.Flags, rule.Flag)
		}
	}

	analysis.RequiresComplianceReview = seenFlags[FlagComplianceReview]
	return analysis
}
