package deck

import (
	"encoding/json"
	"strings"
)

// HasEnrichment reports whether e carries anything worth displaying: a text
// field with at least one non-whitespace character, or a non-empty vocabulary.
func HasEnrichment(e *DeckEnrichment) bool {
	if e == nil {
		return false
	}
	for _, s := range []string{
		e.Hook,
		e.SimpleExplanation,
		e.WhyItMatters,
		e.ClassQuestion,
		e.FunFact,
		e.Attribution,
	} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return len(e.Vocabulary) > 0
}

// UnmarshalJSON accepts the metadata under either "_meta" (as the deck
// service writes it) or "meta".
func (e *DeckEnrichment) UnmarshalJSON(data []byte) error {
	type plain DeckEnrichment
	var aux struct {
		plain
		ServiceMeta *EnrichmentMeta `json:"_meta"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = DeckEnrichment(aux.plain)
	if aux.ServiceMeta != nil {
		e.Meta = aux.ServiceMeta
	}
	return nil
}
