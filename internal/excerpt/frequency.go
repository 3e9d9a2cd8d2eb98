package excerpt

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Builder picks the most representative sentences of a section for display
// metadata. Sentences are ranked by normalized token frequency (stopwords
// filtered) and returned in their original order.
type Builder struct {
	tokenPattern    *regexp.Regexp
	sentencePattern *regexp.Regexp
	stopwords       map[string]struct{}
}

// NewBuilder creates a frequency-ranked excerpt builder.
func NewBuilder() *Builder {
	return &Builder{
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePattern: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:       defaultStopwords(),
	}
}

// Excerpt returns up to maxSentences sentences of text, chosen by token
// frequency. Short inputs come back trimmed but otherwise unchanged.
func (b *Builder) Excerpt(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	sentences := b.sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}
	if len(sentences) <= maxSentences {
		return joinTrimmed(sentences), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range b.tokens(sent) {
			if _, ok := b.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxFreq := 0.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	if maxFreq > 0 {
		for k, v := range freq {
			freq[k] = v / maxFreq
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		score := 0.0
		toks := b.tokens(sent)
		for _, tok := range toks {
			score += freq[tok]
		}
		// normalize by sentence length to avoid favouring long sentences
		if len(toks) > 0 {
			score /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	picked := make([]string, 0, len(selected))
	for _, idx := range selected {
		picked = append(picked, sentences[idx])
	}
	return joinTrimmed(picked), nil
}

func (b *Builder) tokens(text string) []string {
	return b.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func joinTrimmed(sentences []string) string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "than", "so", "such", "into",
		"about", "between", "through", "during", "before", "after", "out",
		"off", "own", "same", "too", "very", "can", "will", "just", "not",
		"now", "you", "your", "we", "our",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
