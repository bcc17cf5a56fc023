package review

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// LexiconFile is the on-disk format of a word list.
type LexiconFile struct {
	Words []string `yaml:"words"`
	Allow []string `yaml:"allow"`
}

// Lexicon is a word-based content filter. It is safe for concurrent use.
type Lexicon struct {
	mu      sync.RWMutex
	words   map[string]struct{}
	phrases map[string][]string
}

func NewLexicon(entries ...string) *Lexicon {
	l := &Lexicon{
		words:   make(map[string]struct{}),
		phrases: make(map[string][]string),
	}
	l.Add(entries...)
	return l
}

// DefaultLexicon returns a fresh copy of the built-in list.
func DefaultLexicon() *Lexicon {
	var f LexiconFile
	if err := yaml.Unmarshal(defaultLexicon, &f); err != nil {
		panic(fmt.Sprintf("review: embedded lexicon: %v", err))
	}
	l := NewLexicon(f.Words...)
	l.Remove(f.Allow...)
	return l
}

// LoadLexicon extends the built-in list with the file at path. An empty path
// yields the built-in list unchanged.
func LoadLexicon(path string) (*Lexicon, error) {
	l := DefaultLexicon()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var f LexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	l.Add(f.Words...)
	l.Remove(f.Allow...)
	return l, nil
}

func (l *Lexicon) Add(entries ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		tokens := tokenize(e)
		switch len(tokens) {
		case 0:
		case 1:
			l.words[tokens[0]] = struct{}{}
		default:
			l.phrases[strings.Join(tokens, " ")] = tokens
		}
	}
}

func (l *Lexicon) Remove(entries ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		key := strings.Join(tokenize(e), " ")
		delete(l.words, key)
		delete(l.phrases, key)
	}
}

func (l *Lexicon) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.words) + len(l.phrases)
}

// Match returns the distinct normalized entries found in text, in order of
// first appearance.
func (l *Lexicon) Match(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var hits []string
	seen := make(map[string]bool)
	hit := func(key string) {
		if !seen[key] {
			seen[key] = true
			hits = append(hits, key)
		}
	}
	for i, tok := range tokens {
		if _, ok := l.words[tok]; ok {
			hit(tok)
		}
		for key, phrase := range l.phrases {
			if phrase[0] == tok && hasPrefix(tokens[i:], phrase) {
				hit(key)
			}
		}
	}
	return hits
}

func (l *Lexicon) Contains(text string) bool {
	return len(l.Match(text)) > 0
}

func hasPrefix(tokens, phrase []string) bool {
	if len(tokens) < len(phrase) {
		return false
	}
	for i := range phrase {
		if tokens[i] != phrase[i] {
			return false
		}
	}
	return true
}

var leet = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
	"$", "s",
)

// tokenize folds case, strips diacritics and splits the text into words.
// Leetspeak is decoded only inside words that already hold a letter, so plain
// numbers like room 455 stay numbers. Casers and transform chains keep state,
// so each call builds its own.
func tokenize(s string) []string {
	s = cases.Fold().String(s)
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = stripped
	}

	var tokens []string
	for _, word := range strings.FieldsFunc(s, func(r rune) bool { return !isWordRune(r) }) {
		if strings.IndexFunc(word, unicode.IsLetter) < 0 {
			continue
		}
		tokens = append(tokens, strings.FieldsFunc(leet.Replace(word), func(r rune) bool { return !unicode.IsLetter(r) })...)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '@' || r == '$'
}
