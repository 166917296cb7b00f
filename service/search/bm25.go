package search

import (
	"math"
	"strings"
)

// Okapi BM25 tuning. The idf of very common terms goes negative with
// the classic formula; those are floored to epsilon times the average
// idf so common words still contribute a small positive weight.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// Tokenize lowercases and splits on whitespace. Catalog names are short
// semi-structured strings, so no stemming or stop words.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// BM25 is an in-memory Okapi BM25 index over a fixed corpus. Built once
// per search against the filtered candidate set; the corpora are small
// (thousands of short documents) so there is no persistent index.
type BM25 struct {
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25 indexes the given tokenized documents.
func NewBM25(corpus [][]string) *BM25 {
	b := &BM25{
		termFreqs: make([]map[string]int, len(corpus)),
		docLens:   make([]int, len(corpus)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	totalLen := 0
	for i, doc := range corpus {
		tf := make(map[string]int, len(doc))
		for _, term := range doc {
			tf[term]++
		}
		b.termFreqs[i] = tf
		b.docLens[i] = len(doc)
		totalLen += len(doc)
		for term := range tf {
			docFreq[term]++
		}
	}
	if len(corpus) > 0 {
		b.avgDocLen = float64(totalLen) / float64(len(corpus))
	}
	if b.avgDocLen == 0 {
		b.avgDocLen = 1
	}

	n := float64(len(corpus))
	idfSum := 0.0
	var negative []string
	for term, freq := range docFreq {
		idf := math.Log(n-float64(freq)+0.5) - math.Log(float64(freq)+0.5)
		b.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}
	if len(docFreq) > 0 {
		floor := bm25Epsilon * (idfSum / float64(len(docFreq)))
		for _, term := range negative {
			b.idf[term] = floor
		}
	}
	return b
}

// ContainsAny reports whether document i contains at least one of the
// query tokens.
func (b *BM25) ContainsAny(query []string, i int) bool {
	if i < 0 || i >= len(b.termFreqs) {
		return false
	}
	for _, term := range query {
		if b.termFreqs[i][term] > 0 {
			return true
		}
	}
	return false
}

// Score returns the BM25 relevance of document i for the query tokens.
func (b *BM25) Score(query []string, i int) float64 {
	if i < 0 || i >= len(b.termFreqs) {
		return 0
	}
	tf := b.termFreqs[i]
	norm := bm25K1 * (1 - bm25B + bm25B*float64(b.docLens[i])/b.avgDocLen)
	score := 0.0
	for _, term := range query {
		f := float64(tf[term])
		if f == 0 {
			continue
		}
		score += b.idf[term] * f * (bm25K1 + 1) / (f + norm)
	}
	return score
}
