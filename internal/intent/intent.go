// Package intent maps free-text support questions onto a fixed taxonomy
// with slot extraction. Classification is a pure function over the text:
// no I/O, deterministic, recomputed per request.
package intent

import (
	"regexp"
	"strings"
)

// Type is the classified purpose of a user message.
type Type string

const (
	TutorPriceByName  Type = "tutor_price_by_name"
	TutorsBySubject   Type = "tutors_by_subject"
	TutorRatingByName Type = "tutor_rating_by_name"
	PricingSummary    Type = "pricing_summary"
	Policy            Type = "policy"
	Freeform          Type = "freeform"
)

// Slot names.
const (
	SlotName    = "name"
	SlotSubject = "subject"
	SlotKey     = "key"
)

// Intent is a classified message. Slots holds extracted values; a missing
// key means the slot was not present (for TutorsBySubject a missing
// subject means "list all tutors").
type Intent struct {
	Type  Type
	Slots map[string]string
}

// rule pairs an intent type with its matcher. Matchers receive the
// original text (for proper-noun casing) and its lowercased form.
type rule struct {
	typ   Type
	match func(orig, lower string) (map[string]string, bool)
}

// rules are evaluated top to bottom and the first match wins. The order is
// a first-class invariant: specific price/rating possessive patterns must
// run before the generic subject capture, and the pricing summary before
// policy keywords. Tests pin this order.
var rules = []rule{
	{TutorPriceByName, matchPriceByName},
	{TutorsBySubject, matchTutorsBySubject},
	{TutorRatingByName, matchRatingByName},
	{PricingSummary, matchPricingSummary},
	{Policy, matchPolicy},
}

// Classify maps text to an intent. Unmatched text is Freeform with empty
// slots, signalling "no structured lookup applies".
func Classify(text string) Intent {
	orig := strings.TrimSpace(text)
	lower := strings.ToLower(orig)
	for _, r := range rules {
		if slots, ok := r.match(orig, lower); ok {
			return Intent{Type: r.typ, Slots: slots}
		}
	}
	return Intent{Type: Freeform, Slots: map[string]string{}}
}

// stopwords are field, domain, and connector words that must never be
// returned as a name or subject slot. Matching one of these means the
// capture was noise, not an entity.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"what": true, "whats": true, "who": true, "whos": true, "which": true,
	"is": true, "are": true, "was": true, "does": true, "do": true,
	"how": true, "much": true, "many": true, "any": true, "some": true,
	"there": true, "here": true, "you": true, "your": true, "my": true,
	"me": true, "please": true, "tell": true, "about": true, "can": true,
	"have": true, "has": true, "had": true, "get": true, "got": true,
	"want": true, "need": true, "looking": true, "seeking": true,
	"i": true, "we": true, "they": true, "he": true, "she": true,
	"it": true, "our": true, "their": true, "more": true, "other": true,
	"s": true, "t": true, "d": true, "ll": true, "re": true, "ve": true,
	"tutor": true, "tutors": true, "teacher": true, "teachers": true,
	"price": true, "prices": true, "pricing": true, "rate": true,
	"rates": true, "rating": true, "ratings": true, "review": true,
	"reviews": true, "fee": true, "fees": true, "cost": true,
	"policy": true, "platform": true, "subject": true, "subjects": true,
	"session": true, "sessions": true, "lesson": true, "lessons": true,
	"available": true, "registered": true, "online": true, "hourly": true,
	"per": true, "hour": true, "for": true, "of": true, "in": true,
	"on": true, "to": true, "and": true, "or": true, "with": true,
	"find": true, "show": true, "list": true, "all": true, "best": true,
	"good": true, "top": true, "new": true, "charge": true, "charges": true,
}

// subjectSynonyms normalizes common shorthand to canonical subject names.
var subjectSynonyms = map[string]string{
	"js":         "JavaScript",
	"javascript": "JavaScript",
	"ts":         "TypeScript",
	"typescript": "TypeScript",
	"py":         "Python",
	"python":     "Python",
	"cs":         "Computer Science",
	"math":       "Mathematics",
	"maths":      "Mathematics",
	"bio":        "Biology",
	"chem":       "Chemistry",
	"stats":      "Statistics",
	"econ":       "Economics",
}

var (
	priceKeywordRe  = regexp.MustCompile(`\b(?:price|prices|pricing|rate|rates|fee|fees|cost|costs|charge|charges|charging)\b`)
	ratingKeywordRe = regexp.MustCompile(`\b(?:rating|ratings|rated|review|reviews|stars)\b`)
	tutorSeekRe     = regexp.MustCompile(`\btutors?\b|\bwho\s+teaches\b|\bteaching\b`)
	listAllRe       = regexp.MustCompile(`\b(?:list|show|find|all|any|which|what|available|every)\b[^.?!]*\btutors?\b|\btutors?\b[^.?!]*\b(?:available|registered|list)\b`)

	// Name captures, most specific first. Run against the original text so
	// the slot preserves the user's casing.
	namePricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([\p{L}]+)['’]s\s+(?:hourly\s+)?(?:price|rate|fee|cost|charge)s?\b`),
		regexp.MustCompile(`(?i)\b(?:does|do|would|will)\s+([\p{L}]+)\s+charge\b`),
		regexp.MustCompile(`(?i)\b(?:price|rate|fee|cost|charge)s?\s+(?:of|for)\s+([\p{L}]+)`),
		regexp.MustCompile(`(?i)\bhow\s+much\s+is\s+([\p{L}]+)`),
	}
	nameRatingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([\p{L}]+)['’]s\s+(?:rating|ratings|review|reviews)\b`),
		regexp.MustCompile(`(?i)\b(?:rating|ratings|review|reviews)\s+(?:of|for|on)\s+([\p{L}]+)`),
		regexp.MustCompile(`(?i)\b(?:is|are|was)\s+([\p{L}]+)\s+rated\b`),
		regexp.MustCompile(`(?i)\bhow\s+good\s+is\s+([\p{L}]+)`),
	}

	// Subject captures allow short multi-word subjects ("computer science")
	// and symbols used in course names ("c++", "c#").
	subjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btutors?\s+(?:for|in|of)\s+([\p{L}\p{N}+#][\p{L}\p{N}+#\s]*)`),
		regexp.MustCompile(`(?i)\bwho\s+teaches\s+([\p{L}\p{N}+#][\p{L}\p{N}+#\s]*)`),
		regexp.MustCompile(`(?i)\b(?:teaching|registered\s+for)\s+([\p{L}\p{N}+#][\p{L}\p{N}+#\s]*)`),
		regexp.MustCompile(`(?i)((?:[\p{L}\p{N}+#]+\s+){0,2}[\p{L}\p{N}+#]+)\s+tutors?\b`),
	}

	pricingSummaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:average|avg|typical|general|overall)\b[^.?!]*\b(?:price|prices|rate|rates|cost|costs|fee|fees)\b`),
		regexp.MustCompile(`\bprice\s+range\b|\bpricing\b`),
		regexp.MustCompile(`\bhow\s+much\s+do\s+(?:tutors|teachers|lessons|sessions)\s+(?:charge|cost)\b`),
		regexp.MustCompile(`\b(?:price|prices|rate|rates|cost|costs)\b[^.?!]*\bplatform\b`),
	}

	// Policy keys checked in a fixed order; the first matching key wins.
	policyRules = []struct {
		key string
		re  *regexp.Regexp
	}{
		{"refund", regexp.MustCompile(`\brefunds?\b|\bmoney\s*back\b`)},
		{"cancel", regexp.MustCompile(`\bcancel`)},
		{"reschedule", regexp.MustCompile(`\breschedul`)},
		{"payment", regexp.MustCompile(`\bpay(?:ment|ments|ing)?\b|\bbilling\b`)},
		{"booking", regexp.MustCompile(`\bbook(?:ing|ings)?\b`)},
		{"login", regexp.MustCompile(`\blog\s*in\b|\bsign\s*in\b|\bpassword\b`)},
	}
)

func matchPriceByName(orig, lower string) (map[string]string, bool) {
	if !priceKeywordRe.MatchString(lower) {
		return nil, false
	}
	name, ok := captureName(orig, namePricePatterns)
	if !ok {
		return nil, false
	}
	return map[string]string{SlotName: name}, true
}

func matchTutorsBySubject(orig, lower string) (map[string]string, bool) {
	if !tutorSeekRe.MatchString(lower) {
		return nil, false
	}
	if subject, ok := captureSubject(orig); ok {
		return map[string]string{SlotSubject: subject}, true
	}
	// Price and rating wording without a subject belongs to later rules,
	// not to a subject-less listing.
	if priceKeywordRe.MatchString(lower) || ratingKeywordRe.MatchString(lower) {
		return nil, false
	}
	// A tutor-seeking phrase with no extractable subject means "list all".
	if listAllRe.MatchString(lower) {
		return map[string]string{}, true
	}
	return nil, false
}

func matchRatingByName(orig, lower string) (map[string]string, bool) {
	if !ratingKeywordRe.MatchString(lower) {
		return nil, false
	}
	name, ok := captureName(orig, nameRatingPatterns)
	if !ok {
		return nil, false
	}
	return map[string]string{SlotName: name}, true
}

func matchPricingSummary(_, lower string) (map[string]string, bool) {
	for _, re := range pricingSummaryPatterns {
		if re.MatchString(lower) {
			return map[string]string{}, true
		}
	}
	return nil, false
}

func matchPolicy(_, lower string) (map[string]string, bool) {
	for _, pr := range policyRules {
		if pr.re.MatchString(lower) {
			return map[string]string{SlotKey: pr.key}, true
		}
	}
	return nil, false
}

// captureName runs the patterns in order and returns the first capture
// that survives the stop-word filter.
func captureName(orig string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(orig)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len(name) < 2 || stopwords[strings.ToLower(name)] {
			continue
		}
		return name, true
	}
	return "", false
}

// captureSubject extracts and normalizes a subject phrase. Leading and
// trailing stop-words are stripped from the capture so "any computer
// science tutors" yields "Computer Science".
func captureSubject(orig string) (string, bool) {
	for _, re := range subjectPatterns {
		m := re.FindStringSubmatch(orig)
		if m == nil {
			continue
		}
		words := strings.Fields(strings.TrimSpace(m[1]))
		for len(words) > 0 && stopwords[strings.ToLower(words[0])] {
			words = words[1:]
		}
		for len(words) > 0 && stopwords[strings.ToLower(words[len(words)-1])] {
			words = words[:len(words)-1]
		}
		subject := strings.Join(words, " ")
		if len(subject) < 2 {
			continue
		}
		return normalizeSubject(subject), true
	}
	return "", false
}

// normalizeSubject maps known shorthand to canonical names and title-cases
// anything unrecognized, preserving words the user already capitalized.
func normalizeSubject(subject string) string {
	if canonical, ok := subjectSynonyms[strings.ToLower(subject)]; ok {
		return canonical
	}
	words := strings.Fields(subject)
	for i, w := range words {
		if w == strings.ToLower(w) {
			r := []rune(w)
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
