// Package analysis turns free-text narrative into structured fields using
// ordered heuristic rules. Every function is pure and total: no I/O, no
// side effects, and a deterministic fallback instead of an error.
package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coinsight/internal/domain"
)

var (
	decimalPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

	// A heading is a markdown header or a capitalized phrase ending in a
	// colon at the start of a line.
	nextSectionPattern = regexp.MustCompile(`(\n#+\s|\n[A-Z][a-zA-Z\s]+:)`)

	scorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)score:?\s*(\d+)(?:/100)?`),
		regexp.MustCompile(`(?i)rating:?\s*(\d+)(?:/100)?`),
		regexp.MustCompile(`(?i)overall\s+score:?\s*(\d+)(?:/100)?`),
		regexp.MustCompile(`(?i)overall\s+rating:?\s*(\d+)(?:/100)?`),
	}
)

// ExtractDecimal returns the first number appearing within 100 characters
// after the first case-insensitive occurrence of keyword, or def when the
// keyword is absent or no number follows it.
func ExtractDecimal(text, keyword string, def float64) float64 {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(keyword))
	if idx < 0 {
		return def
	}

	end := idx + 100
	if end > len(text) {
		end = len(text)
	}
	match := decimalPattern.FindString(text[idx:end])
	if match == "" {
		return def
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return def
	}
	return value
}

// ExtractTrend classifies the narrative's trend direction. Checks run in
// priority order; the first match wins.
func ExtractTrend(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "uptrend") || strings.Contains(lower, "bullish"):
		return domain.TrendBullish
	case strings.Contains(lower, "downtrend") || strings.Contains(lower, "bearish"):
		return domain.TrendBearish
	case strings.Contains(lower, "sideways") || strings.Contains(lower, "neutral") || strings.Contains(lower, "ranging"):
		return domain.TrendNeutral
	}
	return domain.TrendNeutral
}

// ExtractRecommendation maps the narrative to one of the five fixed labels.
// "strong buy" and "strong sell" must be checked before their plain
// counterparts since those are substring-superset matches.
func ExtractRecommendation(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strong buy"):
		return domain.RecommendationStrongBuy
	case strings.Contains(lower, "buy"):
		return domain.RecommendationBuy
	case strings.Contains(lower, "strong sell"):
		return domain.RecommendationStrongSell
	case strings.Contains(lower, "sell"):
		return domain.RecommendationSell
	case strings.Contains(lower, "hold") || strings.Contains(lower, "neutral"):
		return domain.RecommendationHold
	}
	return domain.RecommendationHold
}

// ExtractSection pulls the body of a named section out of the narrative.
// Header variants are tried in order; the section runs from the line after
// the header to the next heading-like line. A missing section yields a
// deterministic placeholder, never an error.
func ExtractSection(text, sectionName string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("Error extracting %s information.", strings.ToLower(sectionName))
		}
	}()

	headers := []string{
		sectionName,
		sectionName + " Assessment",
		sectionName + " Analysis",
		sectionName + " Evaluation",
	}

	lower := strings.ToLower(text)
	for _, header := range headers {
		idx := strings.Index(lower, strings.ToLower(header))
		if idx < 0 {
			continue
		}
		nl := strings.Index(text[idx:], "\n")
		if nl < 0 {
			continue
		}
		start := idx + nl + 1

		rest := text[start:]
		end := len(rest)
		if loc := nextSectionPattern.FindStringIndex(rest); loc != nil {
			end = loc[0]
		}
		return strings.TrimSpace(rest[:end])
	}

	return fmt.Sprintf("No %s assessment available.", strings.ToLower(sectionName))
}

// sentimentKeywords maps narrative phrases to sentiment labels. Declaration
// order is load-bearing: the first keyword found in this order wins, so
// reordering changes which label wins on overlapping text.
var sentimentKeywords = []struct {
	keyword string
	label   string
}{
	{"very positive", "Very Positive"},
	{"positive", "Positive"},
	{"neutral", "Neutral"},
	{"negative", "Negative"},
	{"very negative", "Very Negative"},
	{"bullish", "Bullish"},
	{"bearish", "Bearish"},
}

// ExtractSentiment returns the market sentiment label for the narrative,
// defaulting to Neutral.
func ExtractSentiment(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range sentimentKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.label
		}
	}
	return "Neutral"
}

// recommendationScores backs ExtractScore when the narrative carries no
// explicit numeric score.
var recommendationScores = map[string]int{
	domain.RecommendationStrongBuy:  90,
	domain.RecommendationBuy:        75,
	domain.RecommendationHold:       50,
	domain.RecommendationSell:       25,
	domain.RecommendationStrongSell: 10,
}

// ExtractScore finds an overall 0-100 score in the narrative, deriving one
// from the recommendation when no score pattern matches. The result is
// always within [0,100].
func ExtractScore(text string) (score int) {
	defer func() {
		if r := recover(); r != nil {
			score = 50
		}
	}()

	for _, pattern := range scorePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if value < 0 {
			return 0
		}
		if value > 100 {
			return 100
		}
		return value
	}

	if derived, ok := recommendationScores[ExtractRecommendation(text)]; ok {
		return derived
	}
	return 50
}
