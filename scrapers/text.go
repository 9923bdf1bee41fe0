package scrapers

import (
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	cueRe        = regexp.MustCompile(`\[[^\]]*\]`)
	edgePunctRe  = regexp.MustCompile(`^[^a-z0-9]+|[^a-z0-9]+$`)
)

var stopwords = toSet(
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
	"is", "are", "was", "were", "be", "been", "being",
	"i", "me", "my", "mine", "we", "our", "you", "your", "he", "she", "it", "they", "them",
	"this", "that", "these", "those",
	"to", "of", "in", "on", "at", "for", "from", "by", "with", "about", "as",
	"do", "does", "did", "doing",
	"have", "has", "had",
	"will", "would", "should", "could", "can",
	"not", "no", "yes",
	"so", "very", "just", "really",
	"there", "here", "what", "which", "who", "whom", "why", "how",
	"um", "uh", "uhm", "hmm",
)

var contractions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bI'm\b`), "i am"},
	{regexp.MustCompile(`(?i)\bI'd\b`), "i would"},
	{regexp.MustCompile(`(?i)\bI'll\b`), "i will"},
	{regexp.MustCompile(`(?i)\bI've\b`), "i have"},
	{regexp.MustCompile(`(?i)\byou're\b`), "you are"},
	{regexp.MustCompile(`(?i)\bwe're\b`), "we are"},
	{regexp.MustCompile(`(?i)\bthey're\b`), "they are"},
	{regexp.MustCompile(`(?i)\bit's\b`), "it is"},
	{regexp.MustCompile(`(?i)\bthat's\b`), "that is"},
	{regexp.MustCompile(`(?i)\bthere's\b`), "there is"},
	{regexp.MustCompile(`(?i)\bcan't\b`), "can not"},
	{regexp.MustCompile(`(?i)\bwon't\b`), "will not"},
	{regexp.MustCompile(`(?i)\bhaven't\b`), "have not"},
	{regexp.MustCompile(`(?i)\bhasn't\b`), "has not"},
	{regexp.MustCompile(`(?i)\bdon't\b`), "do not"},
	{regexp.MustCompile(`(?i)\bdoesn't\b`), "does not"},
	{regexp.MustCompile(`(?i)\bdidn't\b`), "did not"},
}

var languageNames = map[string]string{
	"hi": "Hindi",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"ru": "Russian",
	"it": "Italian",
	"nl": "Dutch",
	"ta": "Tamil",
	"te": "Telugu",
	"bn": "Bengali",
	"mr": "Marathi",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"ur": "Urdu",
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// LanguageName maps a caption language code such as "hi-IN" to its English
// name. It returns "" for unknown codes.
func LanguageName(code string) string {
	base, _, _ := strings.Cut(strings.TrimSpace(code), "-")
	base, _, _ = strings.Cut(base, "_")
	return languageNames[strings.ToLower(base)]
}

// DecodeEntities decodes HTML entities, including double-encoded ones
// such as "&amp;#39;".
func DecodeEntities(text string) string {
	return html.UnescapeString(strings.ReplaceAll(text, "&amp;", "&"))
}

// CollapseWhitespace trims text and folds whitespace runs into single spaces.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// CleanCaption decodes entities, drops bracketed cues like "[Music]" and
// collapses whitespace.
func CleanCaption(text string) string {
	return CollapseWhitespace(cueRe.ReplaceAllString(DecodeEntities(text), " "))
}

// ExpandContractions rewrites common English contractions to their long form.
func ExpandContractions(text string) string {
	for _, c := range contractions {
		text = c.re.ReplaceAllString(text, c.repl)
	}
	return text
}

// RemoveStopwords lowercases words, strips edge punctuation and drops
// stopwords and filler.
func RemoveStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		w = edgePunctRe.ReplaceAllString(strings.ToLower(w), "")
		if w == "" {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// ProcessCaption prepares one caption line for the prompt. English captions
// are compacted further by expanding contractions and removing stopwords.
func ProcessCaption(text, language string) string {
	text = CleanCaption(text)
	if strings.HasPrefix(strings.ToLower(language), "en") {
		text = RemoveStopwords(ExpandContractions(text))
	}
	return text
}

// SmartTruncate keeps text within maxChars by sampling its beginning,
// middle and end so the model sees the whole source.
func SmartTruncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	log.Printf("✂️  Truncating source from %d to ~%d chars", len(runes), maxChars)

	part := maxChars / 3
	beginning := string(runes[:part])

	middleStart := len(runes)/2 - part/2
	middle := string(runes[middleStart : middleStart+part])

	end := string(runes[len(runes)-part:])

	return fmt.Sprintf("[BEGINNING OF CONTENT]\n%s\n\n[MIDDLE OF CONTENT]\n%s\n\n[END OF CONTENT]\n%s", beginning, middle, end)
}
