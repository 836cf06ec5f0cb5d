package domain

import "strings"

// QuoteAsset is the fixed quote asset every canonical pair ends with.
const QuoteAsset = "USDT"

// CanonicalPair is a trading pair normalized to the {BASE}USDT form,
// uppercased. Only the normalizer and the pair resolver produce values of
// this type; downstream code trusts the suffix invariant.
type CanonicalPair string

// IsCanonicalPairSymbol reports whether symbol ends with the quote asset
// suffix, case-insensitively. No other validation is performed.
func IsCanonicalPairSymbol(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(symbol), QuoteAsset)
}

// MapToCanonicalPairs filters tickers down to those already in canonical
// form and uppercases the survivors. Input order is preserved and duplicates
// are kept.
func MapToCanonicalPairs(tickers []string) []CanonicalPair {
	pairs := make([]CanonicalPair, 0, len(tickers))
	for _, t := range tickers {
		if IsCanonicalPairSymbol(t) {
			pairs = append(pairs, CanonicalPair(strings.ToUpper(t)))
		}
	}
	return pairs
}
