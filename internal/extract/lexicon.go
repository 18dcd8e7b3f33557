package extract

import (
	"strings"
	"unicode"
)

// Polarity lexicons for the sentiment target. Weights run from 1 (slight) to
// 5 (strong). Multi-word entries are matched as phrases, single words on
// token boundaries.
var positiveLexicon = map[string]int{
	"excellent": 5, "perfect": 5, "incredible": 5, "amazing": 5,
	"outstanding": 5, "exceptional": 5, "brilliant": 5, "love it": 5,
	"awesome": 5, "fantastic": 5,

	"great": 4, "delighted": 4, "impressed": 4, "wonderful": 4,
	"terrific": 4, "really good": 4, "very happy": 4, "thank you": 4,

	"good": 3, "happy": 3, "pleased": 3, "satisfied": 3, "nice": 3,
	"well done": 3, "thanks": 3, "thank": 3, "appreciate": 3,

	"okay": 2, "fine": 2, "gladly": 2, "pleasant": 2, "decent": 2,
	"acceptable": 2, "alright": 2,

	"not bad": 1, "sure": 1, "yes": 1, "agree": 1, "cool": 1,
}

var negativeLexicon = map[string]int{
	"terrible": 5, "horrible": 5, "awful": 5, "disgusting": 5,
	"abysmal": 5, "furious": 5, "unacceptable": 5, "hate": 5,
	"despise": 5,

	"annoyed": 4, "angry": 4, "disappointed": 4, "pathetic": 4,
	"miserable": 4, "unhappy": 4, "upsetting": 4,

	"bad": 3, "poor": 3, "dislike": 3, "unfortunate": 3,
	"unpleasant": 3, "uncomfortable": 3, "failure": 3, "mistake": 3,

	"not good": 2, "not great": 2, "not happy": 2, "disappointing": 2,
	"mediocre": 2, "below average": 2, "inadequate": 2,

	"could be better": 1, "needs improvement": 1, "not ideal": 1,
	"not perfect": 1, "not sure": 1, "not convinced": 1, "no": 1,
	"negative": 1,
}

var dealPhrases = []string{
	"agree", "agreed", "agreement", "deal", "sold", "purchase",
	"purchased", "buy", "will take", "accept", "accepted", "confirm",
	"confirmed", "approve", "approved", "payment", "transfer",
	"transferred", "ship", "shipping", "shipped", "order", "ordered",
	"sale", "transaction", "send money", "paid", "delivery", "ready to",
	"you got a deal",
}

var noDealPhrases = []string{
	"no deal", "don't agree", "do not agree", "cannot accept",
	"can't accept", "refuse", "reject", "not interested",
	"too expensive", "won't work", "will not work", "can't do",
	"cannot do",
}

// lexiconScore sums the weights of lexicon entries found in content, which
// must already be lowercased.
func lexiconScore(content string, lexicon map[string]int) int {
	tokens := tokenSet(content)
	score := 0
	for entry, weight := range lexicon {
		if strings.ContainsRune(entry, ' ') {
			score += strings.Count(content, entry) * weight
		} else if tokens[entry] {
			score += weight
		}
	}
	return score
}

// matchesAnyPhrase reports whether any phrase occurs in content on token
// boundaries for single words, or as a substring for multi-word phrases.
func matchesAnyPhrase(content string, phrases []string) bool {
	tokens := tokenSet(content)
	for _, p := range phrases {
		if strings.ContainsRune(p, ' ') {
			if strings.Contains(content, p) {
				return true
			}
		} else if tokens[p] {
			return true
		}
	}
	return false
}

func tokenSet(content string) map[string]bool {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, "'")] = true
	}
	return set
}
