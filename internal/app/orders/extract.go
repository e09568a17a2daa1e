// Package orders parses the structured side-channel of the print-shop
// order-intake persona: a JSON block the engine is instructed to append
// to each reply with the current state of the order being taken.
// The contract is advisory: a reply without a usable block is not an
// error.
package orders

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Unknown is the sentinel the persona uses for fields not yet known.
const Unknown = "desconhecido"

// Draft is the current state of an order being taken.
type Draft struct {
	Name        string `json:"name"`
	Service     string `json:"service"`
	Quantity    string `json:"quantity"`
	Description string `json:"description"`
	Confirmed   string `json:"confirmed"`
}

// ExtractDraft pulls the trailing JSON block out of an assistant reply
// and decodes it into a Draft. Model output is not trusted: the block
// is repaired before decoding and missing fields fall back to the
// sentinel. ok is false when no object could be recovered.
func ExtractDraft(reply string) (Draft, bool) {
	block, ok := lastJSONObject(reply)
	if !ok {
		return Draft{}, false
	}

	fixed, err := jsonrepair.JSONRepair(block)
	if err != nil {
		return Draft{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(fixed), &raw); err != nil {
		return Draft{}, false
	}

	return Draft{
		Name:        fieldOrUnknown(raw, "name"),
		Service:     fieldOrUnknown(raw, "service"),
		Quantity:    fieldOrUnknown(raw, "quantity"),
		Description: fieldOrUnknown(raw, "description"),
		Confirmed:   fieldOrUnknown(raw, "confirmed"),
	}, true
}

// StripDraft removes the trailing JSON block (and any fence around it)
// from a reply, leaving only the text meant for the user.
func StripDraft(reply string) string {
	block, ok := lastJSONObject(reply)
	if !ok {
		return reply
	}
	idx := strings.LastIndex(reply, block)
	if idx < 0 {
		return reply
	}
	head := reply[:idx]
	tail := reply[idx+len(block):]
	head = strings.TrimSuffix(strings.TrimRight(head, " \n"), "```json")
	head = strings.TrimSuffix(strings.TrimRight(head, " \n"), "```")
	tail = strings.TrimPrefix(strings.TrimLeft(tail, " \n"), "```")
	return strings.TrimRight(head, " \n") + strings.TrimRight(tail, " \n")
}

// lastJSONObject returns the last balanced {...} block of s.
func lastJSONObject(s string) (string, bool) {
	end := strings.LastIndexByte(s, '}')
	if end < 0 {
		return "", false
	}

	depth := 0
	inString := false
	for i := end; i >= 0; i-- {
		c := s[i]
		if inString {
			// Walking backwards, a quote not preceded by a backslash
			// closes the string.
			if c == '"' && (i == 0 || s[i-1] != '\\') {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				return s[i : end+1], true
			}
		}
	}
	return "", false
}

func fieldOrUnknown(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return Unknown
	}
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return Unknown
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "sim"
		}
		return "nao"
	default:
		return Unknown
	}
}
