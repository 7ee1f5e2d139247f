// Package extract pulls structured parameters out of free-form user text:
// addresses, amounts, token symbols, protocol names, and swap requests.
package extract

import (
	"regexp"
	"strings"
)

var (
	addressRe = regexp.MustCompile(`inj1[a-zA-Z0-9]{38,}`)
	amountRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
	swapRe    = regexp.MustCompile(`(?i)swap\s+(\d+(\.\d+)?)\s+([a-zA-Z]+)\s+(?:for|to)\s+([a-zA-Z]+)`)
)

var simulationKeywords = []string{"simulate", "test", "dry run", "debug"}

// Address returns the first inj1 bech32 address mentioned in text.
func Address(text string) (string, bool) {
	m := addressRe.FindString(text)
	return m, m != ""
}

// Token scans text for the first mention of any symbol in known, in the
// order given. Matching is case-insensitive and word-bounded.
func Token(text string, known []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, sym := range known {
		re, err := wordRe(sym)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			return strings.ToLower(sym), true
		}
	}
	return "", false
}

// Tokens returns every symbol from known mentioned in text, in the order
// the known list gives. Matching is case-insensitive and word-bounded.
func Tokens(text string, known []string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, sym := range known {
		re, err := wordRe(sym)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			out = append(out, strings.ToLower(sym))
		}
	}
	return out
}

// Protocol matches a protocol name from known against text, first match
// in list order wins.
func Protocol(text string, known []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range known {
		if strings.Contains(lower, strings.ToLower(name)) {
			return strings.ToLower(name), true
		}
	}
	return "", false
}

// Amount finds "<number> <symbol>" pairs and returns the first one whose
// symbol is in known.
func Amount(text string, known []string) (amount, symbol string, ok bool) {
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		sym := strings.ToLower(m[2])
		for _, k := range known {
			if sym == strings.ToLower(k) {
				return m[1], sym, true
			}
		}
	}
	return "", "", false
}

// SwapRequest is a parsed "swap X FROM for TO" instruction.
type SwapRequest struct {
	Amount string
	From   string
	To     string
}

// Swap parses a swap instruction of the form "swap 10 inj for usdt".
func Swap(text string) (SwapRequest, bool) {
	m := swapRe.FindStringSubmatch(text)
	if m == nil {
		return SwapRequest{}, false
	}
	return SwapRequest{
		Amount: m[1],
		From:   strings.ToLower(m[3]),
		To:     strings.ToLower(m[4]),
	}, true
}

// WantsSimulation reports whether the user asked for a dry run rather
// than a live transaction.
func WantsSimulation(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range simulationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func wordRe(sym string) (*regexp.Regexp, error) {
	return regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(sym)) + `\b`)
}
