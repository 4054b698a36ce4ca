package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
)

const numberGroup = `(\d+(?:\.\d+)?)`

// Compiled regex patterns for price extraction, tried in this order
var (
	maxPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:under|below|less than|max(?:imum)?|up to)\s*\$?\s*` + numberGroup),
		regexp.MustCompile(`(?i)\$?` + numberGroup + `\s*(?:or less|max)\b`),
	}
	minPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:over|above|more than|min(?:imum)?|at least)\s*\$?\s*` + numberGroup),
		regexp.MustCompile(`(?i)\$?` + numberGroup + `\s*(?:or more|min\b|\+)`),
	}
	rangePricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbetween\s*\$?\s*` + numberGroup + `\s*and\s*\$?\s*` + numberGroup),
		regexp.MustCompile(`(?i)\$?` + numberGroup + `\s*(?:to|-)\s*\$?` + numberGroup),
	}
	approxPricePattern = regexp.MustCompile(`(?i)(?:\b(?:around|about|approximately)\s*|~\s*)\$?\s*` + numberGroup)

	// A number followed by "stars" or preceded by "rating" is a rating, not a price
	starSuffixPattern    = regexp.MustCompile(`(?i)^\s*\+?\s*stars?\b`)
	ratingPrefixPattern  = regexp.MustCompile(`(?i)\b(?:rating|rated)(?:\s+(?:of|above|over))?\s*$`)
	starRatingPattern    = regexp.MustCompile(`(?i)(?:^|[^\d.])(\d(?:\.\d+)?)\s*\+?\s*stars?(?:\s+rating)?(?:\s+(?:and up|or more|or higher|\+))?`)
	ratingOfPattern      = regexp.MustCompile(`(?i)\brating\s+(?:of|above|over)\s+(\d(?:\.\d+)?)(?:\s*\+?\s*stars?)?\b`)
	orphanedPunctPattern = regexp.MustCompile(`(?:^|\s)[,\-;:$+~]+(?:\s|$)`)
)

const (
	approxLowFactor   = 0.8
	approxHighFactor  = 1.2
	highRatingDefault = 4.0
	maxRating         = 5.0
)

// QueryParserConfig holds the vocabulary used by the parser. Nil tables fall
// back to the production defaults.
type QueryParserConfig struct {
	CategoryKeywords   []CategoryKeyword
	Brands             []string
	EnableDebugLogging bool
}

type compiledKeyword struct {
	pattern  *regexp.Regexp
	category string
}

type compiledBrand struct {
	pattern *regexp.Regexp
	name    string
}

// queryStage is one extraction pass. When strips is false the stage only
// reads the working text and the next stage sees it unchanged.
type queryStage struct {
	name   string
	strips bool
	run    func(text string, q *domain.ParsedQuery) string
}

// QueryParser turns free-text searches into structured filters
type QueryParser struct {
	keywords []compiledKeyword
	brands   []compiledBrand
	stages   []queryStage

	topDeal, hiddenGem, goodValue      *regexp.Regexp
	highestRated, cheapest, preferDeal *regexp.Regexp
	noSponsored, prime, bulk           *regexp.Regexp
	highRating                         *regexp.Regexp

	logger             zerolog.Logger
	enableDebugLogging bool
}

// NewQueryParser creates a new query parser
func NewQueryParser(config QueryParserConfig, logger zerolog.Logger) *QueryParser {
	keywords := config.CategoryKeywords
	if keywords == nil {
		keywords = DefaultCategoryKeywords
	}
	brands := config.Brands
	if brands == nil {
		brands = DefaultBrands
	}

	p := &QueryParser{
		topDeal:            phrasePattern(topDealPhrases),
		hiddenGem:          phrasePattern(hiddenGemPhrases),
		goodValue:          phrasePattern(goodValuePhrases),
		highestRated:       phrasePattern(highestRatedPhrases),
		cheapest:           phrasePattern(cheapestPhrases),
		preferDeal:         phrasePattern(preferDealPhrases),
		noSponsored:        phrasePattern(noSponsoredPhrases),
		prime:              phrasePattern(primePhrases),
		bulk:               phrasePattern(bulkPhrases),
		highRating:         phrasePattern(highRatingPhrases),
		logger:             logger.With().Str("component", "query_parser").Logger(),
		enableDebugLogging: config.EnableDebugLogging,
	}

	for _, kw := range keywords {
		words := strings.Fields(regexp.QuoteMeta(strings.ToLower(kw.Keyword)))
		if len(words) == 0 {
			continue
		}
		p.keywords = append(p.keywords, compiledKeyword{
			pattern:  regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `(?:s|es)?\b`),
			category: kw.Category,
		})
	}

	for _, brand := range brands {
		words := strings.Fields(regexp.QuoteMeta(brand))
		if len(words) == 0 {
			continue
		}
		p.brands = append(p.brands, compiledBrand{
			pattern: regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + strings.Join(words, `\s+`) + `(?:$|[^\pL\pN])`),
			name:    brand,
		})
	}

	p.stages = []queryStage{
		{name: "price", strips: true, run: p.extractPrice},
		{name: "category", strips: false, run: p.extractCategories},
		{name: "deal_intent", strips: true, run: p.extractDealIntent},
		{name: "brand", strips: false, run: p.extractBrand},
		{name: "filters", strips: true, run: p.extractFilters},
	}

	return p
}

// Parse runs the extraction stages in order and returns the structured query.
// It never fails: empty or unrecognized input yields an unconstrained query.
func (p *QueryParser) Parse(raw string) domain.ParsedQuery {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.ParsedQuery{}
	}

	var q domain.ParsedQuery
	text := trimmed
	for _, stage := range p.stages {
		remaining := stage.run(text, &q)
		if stage.strips {
			text = remaining
		}
		if p.enableDebugLogging {
			p.logger.Debug().Str("stage", stage.name).Str("text", text).Msg("query stage")
		}
	}

	q.SearchTerm = cleanResidual(text)
	if q.SearchTerm == "" {
		q.SearchTerm = trimmed
	}

	if p.enableDebugLogging {
		p.logger.Debug().Str("input", raw).Str("term", q.SearchTerm).Msg("query parsed")
	}

	return q
}

// extractPrice applies max, min, range and approximate patterns in that
// order. A later match overwrites an earlier bound.
func (p *QueryParser) extractPrice(text string, q *domain.ParsedQuery) string {
	for _, re := range maxPricePatterns {
		text = replacePriceMatches(re, text, func(v []float64) {
			q.MaxPrice = floatPtr(v[0])
		})
	}
	for _, re := range minPricePatterns {
		text = replacePriceMatches(re, text, func(v []float64) {
			q.MinPrice = floatPtr(v[0])
		})
	}
	for _, re := range rangePricePatterns {
		text = replacePriceMatches(re, text, func(v []float64) {
			lo, hi := v[0], v[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			q.MinPrice = floatPtr(lo)
			q.MaxPrice = floatPtr(hi)
		})
	}
	text = replacePriceMatches(approxPricePattern, text, func(v []float64) {
		q.MinPrice = floatPtr(v[0] * approxLowFactor)
		q.MaxPrice = floatPtr(v[0] * approxHighFactor)
	})
	return text
}

// replacePriceMatches calls apply for every accepted match of re, left to
// right, and blanks the matched text.
func replacePriceMatches(re *regexp.Regexp, text string, apply func([]float64)) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if isRatingContext(text, m[0], m[1]) {
			continue
		}

		values := make([]float64, 0, len(m)/2-1)
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 {
				continue
			}
			v, err := strconv.ParseFloat(text[m[g]:m[g+1]], 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) != len(m)/2-1 {
			continue
		}

		apply(values)
		b.WriteString(text[last:m[0]])
		b.WriteString(" ")
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func isRatingContext(text string, start, end int) bool {
	return starSuffixPattern.MatchString(text[end:]) || ratingPrefixPattern.MatchString(text[:start])
}

// extractCategories collects every category whose keywords occur in text,
// ordered by first occurrence. The text is left for free-text matching.
func (p *QueryParser) extractCategories(text string, q *domain.ParsedQuery) string {
	type hit struct {
		category string
		pos      int
		order    int
	}
	var hits []hit
	index := make(map[string]int)
	for i, kw := range p.keywords {
		loc := kw.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		j, ok := index[kw.category]
		if !ok {
			index[kw.category] = len(hits)
			hits = append(hits, hit{category: kw.category, pos: loc[0], order: i})
			continue
		}
		if loc[0] < hits[j].pos {
			hits[j].pos = loc[0]
		}
	}
	if len(hits) == 0 {
		return text
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].order < hits[j].order
	})

	categories := make([]string, len(hits))
	for i, h := range hits {
		categories[i] = h.category
	}

	q.Categories = categories
	return text
}

// extractDealIntent runs the intent detectors. Narrow phrases run before
// broad ones so "best rated" is consumed before the bare "best".
func (p *QueryParser) extractDealIntent(text string, q *domain.ParsedQuery) string {
	detectors := []struct {
		pattern *regexp.Regexp
		flag    **bool
	}{
		{p.topDeal, &q.RequireTopDeal},
		{p.hiddenGem, &q.RequireHiddenGem},
		{p.goodValue, &q.RequireGoodValue},
		{p.highestRated, &q.SortHighestRated},
		{p.cheapest, &q.SortCheapest},
		{p.preferDeal, &q.PreferDealScore},
	}

	for _, d := range detectors {
		if d.pattern.MatchString(text) {
			*d.flag = boolPtr(true)
			text = d.pattern.ReplaceAllString(text, " ")
		}
	}
	return text
}

// extractBrand picks the first brand in list order that occurs in text
func (p *QueryParser) extractBrand(text string, q *domain.ParsedQuery) string {
	for _, b := range p.brands {
		if b.pattern.MatchString(text) {
			name := b.name
			q.Brand = &name
			break
		}
	}
	return text
}

// extractFilters detects sponsor, prime and bulk flags plus the rating floor.
// With several explicit ratings the last one in the text wins.
func (p *QueryParser) extractFilters(text string, q *domain.ParsedQuery) string {
	flags := []struct {
		pattern *regexp.Regexp
		flag    **bool
	}{
		{p.noSponsored, &q.ExcludeSponsored},
		{p.prime, &q.RequirePrime},
		{p.bulk, &q.PreferBulkSavings},
	}
	for _, f := range flags {
		if f.pattern.MatchString(text) {
			*f.flag = boolPtr(true)
			text = f.pattern.ReplaceAllString(text, " ")
		}
	}

	lastPos := -1
	var rating float64
	ratingPatterns := []*regexp.Regexp{ratingOfPattern, starRatingPattern}
	for _, re := range ratingPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
			if err != nil || v > maxRating {
				continue
			}
			if m[2] > lastPos {
				lastPos = m[2]
				rating = v
			}
		}
	}
	for _, re := range ratingPatterns {
		text = re.ReplaceAllString(text, " ")
	}

	switch {
	case lastPos >= 0:
		q.MinRating = floatPtr(rating)
	case p.highRating.MatchString(text):
		q.MinRating = floatPtr(highRatingDefault)
	}
	text = p.highRating.ReplaceAllString(text, " ")

	return text
}

// cleanResidual drops orphaned punctuation and stop words and collapses whitespace
func cleanResidual(s string) string {
	s = orphanedPunctPattern.ReplaceAllString(s, " ")
	s = orphanedPunctPattern.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if queryStopWords[strings.ToLower(word)] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// phrasePattern compiles a case-insensitive whole-phrase alternation
func phrasePattern(phrases []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(phrases, "|") + `)\b`)
}

func floatPtr(v float64) *float64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
