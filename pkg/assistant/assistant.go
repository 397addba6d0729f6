// Package assistant answers shopper chat messages with an ordered list of keyword rules.
// The first rule whose matcher accepts the message produces the reply.
package assistant

import (
	"fmt"
	"strings"
	"unicode"

	"grocerease/pkg/inventory"
	"grocerease/pkg/shopping"
)

// Reply is the assistant's answer. Added lists catalog items the caller should put on the list.
type Reply struct {
	Rule  string           `json:"rule"`
	Text  string           `json:"text"`
	Added []inventory.Item `json:"added,omitempty"`
}

// Rule pairs a matcher with the reply it produces.
type Rule struct {
	Name    string
	Match   func(m Message) bool
	Respond func(a *Assistant, m Message) Reply
}

// Message is a normalized chat line together with the shopper's current list.
type Message struct {
	Raw    string
	Lower  string
	Words  map[string]bool
	Tokens []string
	List   []shopping.Entry
}

func newMessage(raw string, list []shopping.Entry) Message {
	lower := strings.ToLower(strings.TrimSpace(raw))
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '%'
	})
	words := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		words[w] = true
	}
	return Message{Raw: raw, Lower: lower, Words: words, Tokens: tokens, List: list}
}

// HasWord reports whether any of words appears as a whole word.
func (m Message) HasWord(words ...string) bool {
	for _, w := range words {
		if m.Words[w] {
			return true
		}
	}
	return false
}

// AfterWord returns the words following the first of keys to occur in the message,
// or "" when none occurs.
func (m Message) AfterWord(keys ...string) string {
	for i, w := range m.Tokens {
		for _, k := range keys {
			if w == k {
				return strings.Join(m.Tokens[i+1:], " ")
			}
		}
	}
	return ""
}

// Contains reports whether any phrase is a substring of the lowercased message.
func (m Message) Contains(phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(m.Lower, p) {
			return true
		}
	}
	return false
}

// Assistant evaluates rules against a read-only catalog.
type Assistant struct {
	catalog *inventory.Catalog
	rules   []Rule
}

// New uses DefaultRules when rules is empty.
func New(catalog *inventory.Catalog, rules ...Rule) *Assistant {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Assistant{catalog: catalog, rules: rules}
}

// Respond runs the rules in order and returns the first match.
func (a *Assistant) Respond(text string, list []shopping.Entry) Reply {
	m := newMessage(text, list)
	for _, rule := range a.rules {
		if rule.Match(m) {
			reply := rule.Respond(a, m)
			reply.Rule = rule.Name
			return reply
		}
	}
	return Reply{Rule: "none", Text: helpText}
}

const (
	helpText     = "I can add items to your list, tell you where products are, or look up prices. Try \"I need milk\" or \"where are the bagels?\""
	removeText   = "To remove items from your shopping list, use the remove button next to each item."
	fallbackText = "I'm not sure I understood. Try saying \"add bread to my list\" or ask \"where is the milk?\""
)

var addWords = []string{"add", "need", "buy", "get"}

// DefaultRules is the built-in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "add", Match: func(m Message) bool { return m.HasWord(addWords...) }, Respond: addReply},
		{Name: "remove", Match: func(m Message) bool { return m.HasWord("remove", "delete") }, Respond: func(*Assistant, Message) Reply {
			return Reply{Text: removeText}
		}},
		{Name: "locate", Match: func(m Message) bool { return m.HasWord("where", "find", "locate") }, Respond: locateReply},
		{Name: "price", Match: func(m Message) bool {
			return m.HasWord("price", "cost", "costs") || m.Contains("how much")
		}, Respond: priceReply},
		{Name: "list", Match: func(m Message) bool { return m.HasWord("list") }, Respond: listReply},
		{Name: "help", Match: func(m Message) bool { return m.HasWord("help", "what", "how") }, Respond: func(*Assistant, Message) Reply {
			return Reply{Text: helpText}
		}},
		{Name: "greeting", Match: func(m Message) bool {
			return m.HasWord("hello", "hi", "hey") || m.Contains("good morning", "good evening")
		}, Respond: func(*Assistant, Message) Reply {
			return Reply{Text: "Hello! " + helpText}
		}},
		{Name: "fallback", Match: func(Message) bool { return true }, Respond: func(*Assistant, Message) Reply {
			return Reply{Text: fallbackText}
		}},
	}
}

// addReply looks up whatever follows the add keyword, so "can you get me whole milk" asks for "whole milk".
func addReply(a *Assistant, m Message) Reply {
	query := cleanQuery(m.AfterWord(addWords...))
	if query == "" {
		return Reply{Text: "What would you like me to add?"}
	}
	item, ok := a.find(query)
	if !ok {
		return Reply{Text: fmt.Sprintf("Sorry, I couldn't find %q in our store.", query)}
	}
	return Reply{
		Text:  fmt.Sprintf("I've added %s to your shopping list. You'll find it on %s.", item.Name, item.FaceID),
		Added: []inventory.Item{item},
	}
}

func locateReply(a *Assistant, m Message) Reply {
	query := cleanQuery(after(m.Lower, "where can i find", "where are", "where is", "where", "find", "locate"))
	if query == "" {
		return Reply{Text: "Which product are you looking for?"}
	}
	matches := a.matches(query)
	if len(matches) == 0 {
		return Reply{Text: fmt.Sprintf("Sorry, I couldn't find %q in our store.", query)}
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	parts := make([]string, 0, len(matches))
	for _, item := range matches {
		parts = append(parts, fmt.Sprintf("%s is on %s", item.Name, item.FaceID))
	}
	return Reply{Text: strings.Join(parts, "; ") + "."}
}

func priceReply(a *Assistant, m Message) Reply {
	head, tail := split(m.Lower, "how much is", "how much are", "how much does", "how much", "price of", "price for", "price", "cost of", "costs", "cost")
	query := cleanQuery(tail)
	if query == "" {
		query = cleanQuery(head)
	}
	if query == "" {
		return Reply{Text: "Which product's price would you like to know?"}
	}
	item, ok := a.find(query)
	if !ok {
		return Reply{Text: fmt.Sprintf("Sorry, I couldn't find %q in our store.", query)}
	}
	return Reply{Text: fmt.Sprintf("%s costs $%s %s.", item.Name, item.Price.StringFixed(2), unitPhrase(item.Unit))}
}

func unitPhrase(u inventory.Unit) string {
	if u == inventory.UnitEach {
		return "each"
	}
	return "per " + string(u)
}

func listReply(_ *Assistant, m Message) Reply {
	if len(m.List) == 0 {
		return Reply{Text: "Your shopping list is empty."}
	}
	names := make([]string, 0, len(m.List))
	for _, e := range m.List {
		names = append(names, e.Name)
	}
	session := shopping.Session{List: m.List}
	return Reply{Text: fmt.Sprintf("Your list has %d items: %s. Estimated total $%s.",
		len(m.List), strings.Join(names, ", "), session.Total().StringFixed(2))}
}

// find prefers an exact name, then a name containing the query, then any search hit.
func (a *Assistant) find(query string) (inventory.Item, bool) {
	if item, err := a.catalog.ItemByName(query); err == nil {
		return item, true
	}
	matches := a.matches(query)
	if len(matches) == 0 {
		return inventory.Item{}, false
	}
	return matches[0], true
}

// matches returns name hits before description hits; a trailing plural "s" is retried without it.
func (a *Assistant) matches(query string) []inventory.Item {
	results := a.catalog.SearchItems(query)
	if len(results) == 0 && strings.HasSuffix(query, "s") {
		results = a.catalog.SearchItems(strings.TrimSuffix(query, "s"))
	}
	byName := make([]inventory.Item, 0, len(results))
	other := make([]inventory.Item, 0, len(results))
	q := strings.TrimSuffix(query, "s")
	for _, item := range results {
		if strings.Contains(strings.ToLower(item.Name), q) {
			byName = append(byName, item)
		} else {
			other = append(other, item)
		}
	}
	return append(byName, other...)
}

// after returns the text following the first key found in s.
func after(s string, keys ...string) string {
	_, tail := split(s, keys...)
	return tail
}

// split cuts s around the first key found, trying keys in order. Without a hit the whole of s is the tail.
func split(s string, keys ...string) (string, string) {
	for _, k := range keys {
		if idx := strings.Index(s, k); idx >= 0 {
			return s[:idx], s[idx+len(k):]
		}
	}
	return "", s
}

var fillers = []string{
	" to my shopping list", " to the shopping list", " to my list", " to the list", " to list",
	" please",
}

var leadingWords = map[string]bool{
	"some": true, "a": true, "an": true, "the": true, "me": true, "is": true,
	"are": true, "of": true, "for": true, "do": true, "does": true, "i": true,
	"you": true, "have": true, "can": true, "what": true, "whats": true, "what's": true,
}

// cleanQuery strips list phrases, punctuation and filler words around a product name.
func cleanQuery(s string) string {
	for _, f := range fillers {
		s = strings.ReplaceAll(s, f, "")
	}
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) && r != '%' && r != '\''
	})
	words := strings.Fields(s)
	for len(words) > 0 && leadingWords[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && (words[len(words)-1] == "cost" || words[len(words)-1] == "costs") {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
