package prompts

import "github.com/abhisek/lingua/internal/lang"

// grammarTopics lists five focus points per language and level.
var grammarTopics = map[lang.Language]map[lang.Level][]string{
	lang.English: {
		lang.A1: {"present simple", "articles (a/an/the)", "personal pronouns", "basic prepositions", "to be / to have"},
		lang.A2: {"past simple", "present continuous", "countable/uncountable nouns", "comparatives", "future with going to"},
		lang.B1: {"present perfect", "past continuous", "modals (can/could/should)", "conditionals (first/second)", "relative clauses"},
		lang.B2: {"past perfect", "passive voice", "reported speech", "third conditional", "wish/if only"},
		lang.C1: {"mixed conditionals", "inversion", "cleft sentences", "advanced modals", "subjunctive"},
		lang.C2: {"ellipsis", "fronting", "substitution", "advanced discourse markers", "register variation"},
	},
	lang.Spanish: {
		lang.A1: {"presente de indicativo", "artículos (el/la/un/una)", "ser vs estar", "género y número", "preposiciones básicas"},
		lang.A2: {"pretérito indefinido", "pretérito imperfecto", "pronombres objeto", "comparativos", "ir a + infinitivo"},
		lang.B1: {"pretérito perfecto", "subjuntivo presente (básico)", "por vs para", "condicional simple", "pronombres relativos"},
		lang.B2: {"subjuntivo presente (avanzado)", "pluscuamperfecto", "voz pasiva", "oraciones condicionales", "estilo indirecto"},
		lang.C1: {"subjuntivo imperfecto", "perífrasis verbales", "oraciones concesivas", "conectores avanzados", "registro formal"},
		lang.C2: {"subjuntivo pluscuamperfecto", "matices estilísticos", "variación dialectal", "recursos retóricos", "ambigüedad pragmática"},
	},
	lang.German: {
		lang.A1: {"Präsens", "Artikel (der/die/das)", "Personalpronomen", "Wortstellung (SVO)", "Konjugation regelmäßiger Verben"},
		lang.A2: {"Perfekt", "Modalverben", "Akkusativ/Dativ", "Präpositionen mit Kasus", "trennbare Verben"},
		lang.B1: {"Präteritum", "Nebensätze (weil/dass/wenn)", "Konjunktiv II", "Relativsätze", "Passiv"},
		lang.B2: {"Plusquamperfekt", "Konjunktiv I", "erweiterte Passivformen", "Partizipalkonstruktionen", "indirekte Rede"},
		lang.C1: {"Nominalisierung", "komplexe Satzgefüge", "Funktionsverbgefüge", "gehobener Stil", "Modalpartikeln"},
		lang.C2: {"Stilistische Variation", "Fachsprache", "historische Sprachformen", "rhetorische Mittel", "Textsortenlinguistik"},
	},
}

// curriculumTopics lists ten lesson topics per level.
var curriculumTopics = map[lang.Level][]string{
	lang.A1: {
		"Greetings and introductions", "Numbers and counting", "Colors and shapes",
		"Family members", "Food and drink", "Daily routines", "The classroom",
		"Weather and seasons", "Parts of the body", "Clothing",
	},
	lang.A2: {
		"Shopping and prices", "Giving directions", "At the restaurant",
		"Hobbies and free time", "Jobs and occupations", "Transportation",
		"Making plans", "Describing people", "Health and the doctor",
		"The home and furniture",
	},
	lang.B1: {
		"Travel and tourism", "Telling stories and anecdotes", "Education and learning",
		"Technology in daily life", "Environmental issues", "Comparing cultures",
		"Expressing opinions", "News and current events", "Relationships and socializing",
		"Work and career goals",
	},
	lang.B2: {
		"Debating social issues", "Art, literature, and film", "Science and innovation",
		"Politics and governance", "Globalization and economics", "Ethics and moral dilemmas",
		"Media and advertising", "History and heritage", "Psychology and behavior",
		"Sustainability and the future",
	},
	lang.C1: {
		"Philosophical discourse", "Academic writing and research", "Nuance in humor and irony",
		"Legal and contractual language", "Advanced negotiation", "Literary analysis",
		"Sociopolitical commentary", "Scientific methodology", "Cross-cultural pragmatics",
		"Professional presentations",
	},
	lang.C2: {
		"Stylistic writing across registers", "Rhetorical devices and persuasion",
		"Simultaneous interpretation practice", "Dialectal variation and sociolects",
		"Meta-linguistic analysis", "Creative and poetic expression", "Advanced idiomatic fluency",
		"Domain-specific expert discourse", "Ambiguity and pragmatic inference",
		"Cultural satire and commentary",
	},
}

// cultureTopics lists ten cultural themes per language.
var cultureTopics = map[lang.Language][]string{
	lang.English: {
		"British vs American English differences",
		"Tea culture and social etiquette in the UK",
		"Tipping customs in English-speaking countries",
		"Humor and sarcasm in English conversation",
		"Business email etiquette",
		"Sports culture (football vs soccer, cricket, baseball)",
		"Holiday traditions (Christmas, Thanksgiving, Guy Fawkes)",
		"Pub culture and social drinking customs",
		"Politeness strategies and indirect communication",
		"Slang and informal language by region",
	},
	lang.Spanish: {
		"Tú vs Usted: when to use formal/informal",
		"Regional variations: Spain vs Latin America",
		"Siesta culture and daily schedules",
		"Family structure and social values",
		"Food culture: tapas, sobremesa, mealtimes",
		"Festivals: La Tomatina, Día de los Muertos, Las Fallas",
		"Gesture and body language in Spanish-speaking cultures",
		"The concept of 'mañana' and time perception",
		"Football (fútbol) as cultural identity",
		"Music and dance: flamenco, salsa, reggaeton",
	},
	lang.German: {
		"Du vs Sie: formal address rules",
		"Punctuality and time culture (Pünktlichkeit)",
		"Bread culture and Bäckerei traditions",
		"Recycling and environmental consciousness (Mülltrennung)",
		"Oktoberfest and regional beer culture",
		"The Autobahn and driving culture",
		"Karneval and regional festival traditions",
		"Apprenticeship system (Ausbildung)",
		"Sunday rest laws (Sonntagsruhe)",
		"Direct communication style vs other cultures",
	},
}

// levelGuidelines steer conversational complexity.
var levelGuidelines = map[lang.Level]string{
	lang.A1: `Use only basic vocabulary (greetings, numbers, colors, family, food).
Keep sentences very short (3-6 words). Use only present tense.
Stick to concrete, everyday topics. Repeat key words often.`,
	lang.A2: `Use common everyday vocabulary. Keep sentences simple but allow compound sentences.
Use present and past tense. Cover familiar topics: shopping, work, daily routines.`,
	lang.B1: `Use intermediate vocabulary including some abstract concepts.
Use various tenses including future and conditional. Discuss opinions, experiences, plans.
Introduce some idiomatic expressions.`,
	lang.B2: `Use varied vocabulary including technical and abstract terms.
Use complex grammar: subjunctive, passive voice, reported speech.
Discuss current events, hypotheticals, nuanced opinions.`,
	lang.C1: `Use advanced vocabulary, nuance, and register variation.
Employ sophisticated grammar structures naturally. Discuss complex topics in depth.
Use idioms, colloquialisms, and cultural references.`,
	lang.C2: `Use the full range of language naturally and precisely.
Employ subtle meaning distinctions, humor, and rhetorical devices.
Any topic at native-like complexity.`,
}

// GrammarTopics returns the grammar focus list for a language and level.
func GrammarTopics(l lang.Language, v lang.Level) []string {
	return append([]string(nil), grammarTopics[l][v]...)
}

// CurriculumTopics returns the lesson topics for a level.
func CurriculumTopics(v lang.Level) []string {
	return append([]string(nil), curriculumTopics[v]...)
}

// CultureTopics returns the cultural themes for a language.
func CultureTopics(l lang.Language) []string {
	return append([]string(nil), cultureTopics[l]...)
}

// RemainingTopics filters completed topics out of the level's curriculum,
// preserving order.
func RemainingTopics(v lang.Level, completed []string) []string {
	done := make(map[string]bool, len(completed))
	for _, t := range completed {
		done[t] = true
	}
	var out []string
	for _, t := range curriculumTopics[v] {
		if !done[t] {
			out = append(out, t)
		}
	}
	return out
}
