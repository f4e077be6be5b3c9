package router

import "strings"

// rule pairs a route with the keywords that select it.
type rule struct {
	route    Route
	keywords []string
}

var assessmentKeywords = []string{
	"quiz", "test", "assess", "evaluate", "check my level", "placement", "how good am i",
}

var curriculumKeywords = []string{
	"lesson", "teach me", "start a lesson", "new lesson", "next lesson", "topic",
	"learn about", "lección", "Lektion", "structured lesson", "lesson plan",
}

var vocabularyKeywords = []string{
	"vocabulary", "vocab", "word", "words", "meaning", "definition", "translate",
	"translation", "synonym", "antonym", "flashcard", "review words", "new words",
	"learn words", "vocabulario", "palabras", "Wortschatz", "Vokabeln",
}

var cultureKeywords = []string{
	"culture", "cultural", "tradition", "custom", "etiquette", "idiom", "expression",
	"slang", "formal vs informal", "polite", "register", "historia", "costumbre",
	"Kultur", "Tradition", "Brauch", "tú vs usted", "du vs sie",
}

var grammarKeywords = []string{
	"grammar", "conjugat", "tense", "verb", "noun", "adjective", "pronoun", "article",
	"exercise", "practice", "drill", "rule", "explain", "how do you say",
	"what is the difference", "gramática", "Grammatik",
}

// rules is evaluated in order; the first list with a hit wins.
var rules = []rule{
	{RouteAssessment, lowerAll(assessmentKeywords)},
	{RouteCurriculum, lowerAll(curriculumKeywords)},
	{RouteVocabulary, lowerAll(vocabularyKeywords)},
	{RouteCulture, lowerAll(cultureKeywords)},
	{RouteGrammar, lowerAll(grammarKeywords)},
}

// lowerAll folds keywords to lower case so they can match a lower-cased
// message ("Wortschatz" must match "wortschatz").
func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}

// Keywords returns the keyword list for a route, or nil for routes that are
// never selected by keyword.
func Keywords(r Route) []string {
	for _, rl := range rules {
		if rl.route == r {
			out := make([]string, len(rl.keywords))
			copy(out, rl.keywords)
			return out
		}
	}
	return nil
}
