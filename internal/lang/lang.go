package lang

import (
	"fmt"
	"strings"
)

// Language is a supported target language code.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	German  Language = "de"
)

// All returns the supported languages in display order.
func All() []Language {
	return []Language{English, Spanish, German}
}

// Info describes how a language is presented to the learner.
type Info struct {
	Name       string
	NativeName string
	Flag       string
	TutorName  string
}

var infos = map[Language]Info{
	English: {Name: "English", NativeName: "English", Flag: "GB", TutorName: "Emma"},
	Spanish: {Name: "Spanish", NativeName: "Español", Flag: "ES", TutorName: "Carlos"},
	German:  {Name: "German", NativeName: "Deutsch", Flag: "DE", TutorName: "Lena"},
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, ok := infos[l]
	return ok
}

// Info returns presentation details for the language.
func (l Language) Info() Info {
	if info, ok := infos[l]; ok {
		return info
	}
	return Info{Name: string(l), NativeName: string(l), TutorName: "Tutor"}
}

// Name returns the English name of the language.
func (l Language) Name() string { return l.Info().Name }

// TutorName returns the persona name used in prompts for this language.
func (l Language) TutorName() string { return l.Info().TutorName }

// ParseLanguage parses a language code, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Level is a CEFR proficiency tier.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
	C2 Level = "C2"
)

// Levels returns all CEFR levels from lowest to highest.
func Levels() []Level {
	return []Level{A1, A2, B1, B2, C1, C2}
}

var levelDescriptions = map[Level]string{
	A1: "Beginner",
	A2: "Elementary",
	B1: "Intermediate",
	B2: "Upper Intermediate",
	C1: "Advanced",
	C2: "Proficient",
}

// Valid reports whether v is a CEFR level.
func (v Level) Valid() bool {
	_, ok := levelDescriptions[v]
	return ok
}

// Description returns the human-readable tier name, e.g. "Beginner".
func (v Level) Description() string {
	return levelDescriptions[v]
}

// ParseLevel parses a CEFR level, case-insensitively.
func ParseLevel(s string) (Level, error) {
	v := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unsupported CEFR level %q", s)
	}
	return v, nil
}

// SessionType tags what kind of screen or channel a message came from.
type SessionType string

const (
	SessionConversation SessionType = "conversation"
	SessionLesson       SessionType = "lesson"
	SessionExercise     SessionType = "exercise"
	SessionAssessment   SessionType = "assessment"
	SessionVocabulary   SessionType = "vocabulary"
	SessionCulture      SessionType = "culture"
)

// SessionTypes returns every known session type.
func SessionTypes() []SessionType {
	return []SessionType{
		SessionConversation, SessionLesson, SessionExercise,
		SessionAssessment, SessionVocabulary, SessionCulture,
	}
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	for _, known := range SessionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSessionType parses a session type. An empty string yields
// SessionConversation.
func ParseSessionType(s string) (SessionType, error) {
	if strings.TrimSpace(s) == "" {
		return SessionConversation, nil
	}
	t := SessionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unsupported session type %q", s)
	}
	return t, nil
}
