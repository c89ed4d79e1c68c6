package optimizer

import (
	"encoding/xml"
	"fmt"
	"math"
	"time"

	"github.com/promptpress/promptpress/pkg/tokens"
)

// tokenCount is the shared token heuristic applied to every candidate.
func tokenCount(text string) int {
	return tokens.Estimate(text)
}

// tokensSavedPct returns the token saving of chosen over original as a
// percentage rounded to two decimals. Negative when the winner is longer.
func tokensSavedPct(originalTokens, chosenTokens int) float64 {
	if originalTokens == 0 {
		return 0
	}
	pct := float64(originalTokens-chosenTokens) / float64(originalTokens) * 100
	return math.Round(pct*100) / 100
}

// toJSONEnvelope renders the chosen prompt as the structured JSON form.
func toJSONEnvelope(prompt string, now time.Time) JSONEnvelope {
	return JSONEnvelope{
		Type:      "prompt",
		Content:   prompt,
		Length:    len(prompt),
		Timestamp: now.UTC(),
	}
}

type xmlPrompt struct {
	XMLName xml.Name `xml:"prompt"`
	Length  int      `xml:"length,attr"`
	Text    string   `xml:",chardata"`
}

// toXMLStructure renders the chosen prompt as a length-attributed XML
// element.
func toXMLStructure(prompt string) string {
	out, err := xml.Marshal(xmlPrompt{Length: len(prompt), Text: prompt})
	if err != nil {
		// Marshal of a chardata struct cannot fail for valid UTF-8; fall
		// back to an empty element rather than propagating.
		return fmt.Sprintf(`<prompt length="%d"></prompt>`, len(prompt))
	}
	return string(out)
}
