// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/api-router/pkg/types"
)

var (
	sentimentWords = regexp.MustCompile(`(?i)\b(sentiment|tone|mood|emotion|emotional|positive or negative|feel(?:s|ing)? about)\b`)
	weatherWords   = regexp.MustCompile(`(?i)\b(weather|forecast|temperature|rain(?:ing|y)?|snow(?:ing|y)?|sunny|cloudy|humid(?:ity)?|wind(?:y)?)\b`)
	stockWords     = regexp.MustCompile(`(?i)\b(stocks?|shares?|ticker|trading|nasdaq|nyse|stock price|market cap|close[ds]?|opened)\b`)
	priceWords     = regexp.MustCompile(`(?i)\b(prices?|quotes?|closing|opening|trade[ds]?|worth)\b`)

	quotedText   = regexp.MustCompile(`["“]([^"”]+)["”]|(?:^|\s)'([^']{3,})'(?:\W|$)`)
	dollarTicker = regexp.MustCompile(`\$([A-Za-z]{1,5}(?:\.[A-Za-z])?)\b`)
	upperTicker  = regexp.MustCompile(`\b([A-Z]{1,5}(?:\.[A-Z])?)\b`)
	isoDate      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	inLocation   = regexp.MustCompile(`\b(?:in|for|at)\s+([A-Z][\w.'-]*(?:(?:\s+|,\s*)[A-Z][\w.'-]*)*)`)
	clockHour    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::\d{2})?\s*(am|pm)\b`)
	atHour       = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::\d{2})?\b`)
	resultCount  = regexp.MustCompile(`(?i)\b(?:top|first)\s+(\d{1,2})\b`)
	searchPrefix = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:search(?:\s+the\s+web)?\s+for|google|look\s+up|find(?:\s+me)?)\s+`)
	afterColon   = regexp.MustCompile(`:\s*(.+)$`)
)

// companyTickers maps common company names to their symbols.
var companyTickers = map[string]string{
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"google":    "GOOGL",
	"alphabet":  "GOOGL",
	"amazon":    "AMZN",
	"tesla":     "TSLA",
	"nvidia":    "NVDA",
	"meta":      "META",
	"facebook":  "META",
	"netflix":   "NFLX",
	"ibm":       "IBM",
	"intel":     "INTC",
}

// notTickers are capitalized words that look like symbols but are not.
var notTickers = map[string]bool{
	"I": true, "A": true, "US": true, "USA": true, "UK": true, "AM": true, "PM": true,
	"CEO": true, "AI": true, "API": true, "OK": true, "THE": true, "WHAT": true, "HOW": true,
}

// KeywordClassifier routes queries with keyword rules and regular
// expressions. It needs no network access and backs the router when no
// model is configured.
type KeywordClassifier struct {
	now func() time.Time
}

// NewKeywordClassifier returns a rule-based classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{now: time.Now}
}

// Classify picks sentiment, weather, then stock by keyword and falls back
// to web search. A price word only means stock when the query also names a
// ticker or a known company.
func (k *KeywordClassifier) Classify(ctx context.Context, query string) (Decision, error) {
	api := types.APIGoogleSearch
	switch {
	case sentimentWords.MatchString(query):
		api = types.APISentiment
	case weatherWords.MatchString(query):
		api = types.APIWeather
	case stockWords.MatchString(query) || dollarTicker.MatchString(query):
		api = types.APIStockData
	case priceWords.MatchString(query) && findTicker(query) != "":
		api = types.APIStockData
	}
	p, err := k.ExtractParams(ctx, query, api)
	if err != nil {
		return Decision{}, err
	}
	return Decision{API: api, Params: p}, nil
}

// ExtractParams pulls the parameters of api out of query. Parameters it
// cannot find are omitted.
func (k *KeywordClassifier) ExtractParams(_ context.Context, query string, api types.APIName) (types.Params, error) {
	p := types.Params{}
	switch api {
	case types.APIGoogleSearch:
		term := strings.TrimSpace(searchPrefix.ReplaceAllString(query, ""))
		if term != "" {
			p[ParamSearchTerm] = term
		}
		if m := resultCount.FindStringSubmatch(query); m != nil {
			n, _ := strconv.Atoi(m[1])
			p[ParamNumResults] = n
		}
	case types.APIStockData:
		if sym := findTicker(query); sym != "" {
			p[ParamSymbol] = sym
		}
		if d := k.findDate(query); d != "" {
			p[ParamDate] = d
		}
	case types.APISentiment:
		if text := findSubjectText(query); text != "" {
			p[ParamText] = text
		}
	case types.APIWeather:
		if m := inLocation.FindStringSubmatch(query); m != nil {
			p[ParamLocation] = strings.TrimRight(m[1], ".,?!")
		}
		if d := k.findDate(query); d != "" {
			p[ParamDate] = d
		}
		if h, ok := findHour(query); ok {
			p[ParamHour] = strconv.Itoa(h)
		}
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownAPI, api)
	}
	return p, nil
}

func findTicker(query string) string {
	if m := dollarTicker.FindStringSubmatch(query); m != nil {
		return strings.ToUpper(m[1])
	}
	for _, w := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if sym, ok := companyTickers[w]; ok {
			return sym
		}
	}
	for _, m := range upperTicker.FindAllStringSubmatch(query, -1) {
		if !notTickers[m[1]] {
			return m[1]
		}
	}
	return ""
}

func (k *KeywordClassifier) findDate(query string) string {
	if m := isoDate.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	now := time.Now()
	if k.now != nil {
		now = k.now()
	}
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1).Format(time.DateOnly)
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1).Format(time.DateOnly)
	case strings.Contains(lower, "today"):
		return now.Format(time.DateOnly)
	}
	return ""
}

// findHour reads "3pm", "at 15", "at 9:30", "noon" or "midnight" as a
// 24-hour clock hour.
func findHour(query string) (int, bool) {
	lower := strings.ToLower(query)
	if strings.Contains(lower, "noon") {
		return 12, true
	}
	if strings.Contains(lower, "midnight") {
		return 0, true
	}
	if m := clockHour.FindStringSubmatch(query); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 1 || h > 12 {
			return 0, false
		}
		h %= 12
		if strings.EqualFold(m[2], "pm") {
			h += 12
		}
		return h, true
	}
	if m := atHour.FindStringSubmatch(query); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h <= 23 {
			return h, true
		}
	}
	return 0, false
}

// findSubjectText returns quoted text, else whatever follows a colon, else
// the whole query.
func findSubjectText(query string) string {
	if m := quotedText.FindStringSubmatch(query); m != nil {
		if m[1] != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[2])
	}
	if m := afterColon.FindStringSubmatch(query); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(query)
}
