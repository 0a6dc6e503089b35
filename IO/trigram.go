package IO

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// Letter-trigram word hashing. A word is wrapped in boundary marks
// ("good" -> "#good#"), split into 3-rune shingles and each shingle is
// hashed into one of a fixed number of buckets. One input position covers a
// sliding window of consecutive words, so a position's vector is the
// concatenation of Window per-word bucket-count vectors.
type TrigramHasher struct {
	Window  int // words per position
	Buckets int // hash buckets per word
}

func NewTrigramHasher(window, buckets int) *TrigramHasher {
	return &TrigramHasher{Window: window, Buckets: buckets}
}

// Tokenize splits text into lowercased alphanumeric words.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	var words []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// WordVector returns the trigram bucket counts for one word, length Buckets.
func (h *TrigramHasher) WordVector(word string) []float64 {
	out := make([]float64, h.Buckets)
	runes := []rune("#" + strings.ToLower(word) + "#")
	for i := 0; i+3 <= len(runes); i++ {
		out[h.bucket(string(runes[i:i+3]))]++
	}
	return out
}

func (h *TrigramHasher) bucket(trigram string) int {
	f := fnv.New32a()
	f.Write([]byte(trigram))
	return int(f.Sum32() % uint32(h.Buckets))
}

// Encode hashes text into a (Window*Buckets x T) matrix, positions as
// columns. A text shorter than the window still yields one position with the
// missing word slots left zero.
func (h *TrigramHasher) Encode(text string) (*mat.Dense, error) {
	words := Tokenize(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("trigram: no words in %q", text)
	}
	T := len(words) - h.Window + 1
	if T < 1 {
		T = 1
	}
	out := mat.NewDense(h.Window*h.Buckets, T, nil)
	for t := 0; t < T; t++ {
		for s := 0; s < h.Window; s++ {
			wi := t + s
			if wi >= len(words) {
				break
			}
			vec := h.WordVector(words[wi])
			for b, v := range vec {
				out.Set(s*h.Buckets+b, t, v)
			}
		}
	}
	return out, nil
}
