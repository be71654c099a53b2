package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Domain is the business entity a question is about
type Domain string

const (
	// DomainAuto lets the narrative decide
	DomainAuto        Domain = ""
	DomainConsumption Domain = "consommation"
	DomainReception   Domain = "reception"
)

// Keywords that mark a narrative as being about receptions, in folded form
var receptionKeywords = []string{"RECEPTION", "LIVRAISON"}

// ParseDomain maps a route segment to a Domain. Case and accents are ignored.
func ParseDomain(s string) (Domain, error) {
	switch foldText(s) {
	case "":
		return DomainAuto, nil
	case "CONSOMMATION", "CONSOMMATIONS", "CONSUMPTION":
		return DomainConsumption, nil
	case "RECEPTION", "RECEPTIONS":
		return DomainReception, nil
	}
	return DomainAuto, ErrUnknownDomain
}

// Label is the French wording used in table titles and row labels
func (d Domain) Label() string {
	if d == DomainReception {
		return "réception"
	}
	return "consommation"
}

// DetectDomain guesses the domain from the backend's narrative answer
func DetectDomain(narrative string) Domain {
	folded := foldText(narrative)
	for _, kw := range receptionKeywords {
		if strings.Contains(folded, kw) {
			return DomainReception
		}
	}
	return DomainConsumption
}

// foldText strips accents and upper-cases s: "Réception" -> "RECEPTION"
func foldText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}
