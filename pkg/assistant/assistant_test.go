package assistant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocerease/pkg/inventory"
	"grocerease/pkg/shopping"
)

func testCatalog() *inventory.Catalog {
	price := decimal.RequireFromString
	return inventory.NewCatalog([]inventory.Item{
		{ID: "dai_006_1111", Name: "Whole Milk", FaceID: "face_006", Description: "Premium whole milk, great taste and quality", Price: price("3.49"), Unit: inventory.UnitEach, Category: inventory.CategoryDairy},
		{ID: "dai_006_2222", Name: "Organic Whole Milk", FaceID: "face_006", Description: "Premium organic whole milk, great taste and quality", Price: price("5.29"), Unit: inventory.UnitEach, Category: inventory.CategoryDairy},
		{ID: "bak_003_3333", Name: "Bagels", FaceID: "face_003", Description: "Fresh baked bagels, made daily", Price: price("4.00"), Unit: inventory.UnitEach, Category: inventory.CategoryBakery},
		{ID: "pro_000_4444", Name: "Gala Apples", FaceID: "face_000", Description: "Fresh gala apples, premium quality", Price: price("1.99"), Unit: inventory.UnitPound, Category: inventory.CategoryProduce},
	}, nil)
}

func TestRespond(t *testing.T) {
	bot := New(testCatalog())

	cases := []struct {
		name     string
		message  string
		rule     string
		contains string
		added    string
	}{
		{name: "add exact", message: "Add whole milk to my list", rule: "add", contains: "I've added Whole Milk to your shopping list. You'll find it on face_006.", added: "dai_006_1111"},
		{name: "add partial", message: "please add some bagel", rule: "add", contains: "Bagels", added: "bak_003_3333"},
		{name: "add unknown", message: "add caviar", rule: "add", contains: `couldn't find "caviar"`},
		{name: "add nothing", message: "add", rule: "add", contains: "What would you like me to add?"},
		{name: "need", message: "I need milk", rule: "add", contains: "I've added Whole Milk", added: "dai_006_1111"},
		{name: "buy", message: "buy bagels", rule: "add", contains: "Bagels", added: "bak_003_3333"},
		{name: "get", message: "can you get me whole milk", rule: "add", contains: "Whole Milk", added: "dai_006_1111"},
		{name: "get organic", message: "Get organic whole milk please.", rule: "add", contains: "Organic Whole Milk", added: "dai_006_2222"},
		{name: "remove", message: "remove the milk from my list", rule: "remove", contains: "use the remove button"},
		{name: "delete", message: "delete bagels", rule: "remove", contains: "use the remove button"},
		{name: "locate", message: "Where are the bagels?", rule: "locate", contains: "Bagels is on face_003"},
		{name: "locate several", message: "where can I find milk", rule: "locate", contains: "Whole Milk is on face_006; Organic Whole Milk is on face_006"},
		{name: "locate unknown", message: "find caviar", rule: "locate", contains: "Sorry"},
		{name: "price how much", message: "How much is whole milk?", rule: "price", contains: "Whole Milk costs $3.49 each."},
		{name: "price trailing cost", message: "what does gala apples cost?", rule: "price", contains: "Gala Apples costs $1.99 per lb."},
		{name: "price of", message: "price of bagels", rule: "price", contains: "Bagels costs $4.00"},
		{name: "greeting", message: "Hello there", rule: "greeting", contains: "Hello!"},
		{name: "help", message: "help", rule: "help", contains: "I can add items"},
		{name: "help before greeting", message: "hi, how does this work?", rule: "help", contains: "I can add items"},
		{name: "fallback", message: "tell me a joke", rule: "fallback", contains: "I'm not sure I understood"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply := bot.Respond(tc.message, nil)
			assert.Equal(t, tc.rule, reply.Rule)
			assert.Contains(t, reply.Text, tc.contains)
			if tc.added == "" {
				assert.Empty(t, reply.Added)
				return
			}
			require.Len(t, reply.Added, 1)
			assert.Equal(t, tc.added, reply.Added[0].ID)
		})
	}
}

func TestRespondShowsList(t *testing.T) {
	bot := New(testCatalog())

	empty := bot.Respond("show my list", nil)
	assert.Equal(t, "list", empty.Rule)
	assert.Equal(t, "Your shopping list is empty.", empty.Text)

	milk, err := testCatalog().ItemByName("Whole Milk")
	require.NoError(t, err)
	bagels, err := testCatalog().ItemByName("Bagels")
	require.NoError(t, err)
	list := []shopping.Entry{shopping.EntryFor(milk, 2), shopping.EntryFor(bagels, 1)}

	reply := bot.Respond("what's on my list?", list)
	assert.Equal(t, "list", reply.Rule)
	assert.Equal(t, "Your list has 2 items: Whole Milk, Bagels. Estimated total $10.98.", reply.Text)
}

func TestRulesRunInOrder(t *testing.T) {
	bot := New(testCatalog())
	// "add" outranks "where" when both appear.
	assert.Equal(t, "add", bot.Respond("add bagels, where are they?", nil).Rule)
	assert.Equal(t, "add", bot.Respond("I need to remove milk", nil).Rule)
	assert.Equal(t, "remove", bot.Respond("delete the list", nil).Rule)
	assert.Equal(t, "list", bot.Respond("what's on my list?", nil).Rule)
}

func TestAfterWord(t *testing.T) {
	m := newMessage("Could you GET me 2% milk?", nil)
	assert.Equal(t, "me 2% milk", m.AfterWord(addWords...))
	assert.Equal(t, "", newMessage("budget target", nil).AfterWord(addWords...))
	assert.Equal(t, "", newMessage("buy", nil).AfterWord(addWords...))
}

func TestCustomRules(t *testing.T) {
	bot := New(testCatalog(), Rule{
		Name:    "hours",
		Match:   func(m Message) bool { return m.HasWord("open", "hours") },
		Respond: func(*Assistant, Message) Reply { return Reply{Text: "We are open 7am to 10pm."} },
	})

	assert.Equal(t, "hours", bot.Respond("what are your hours", nil).Rule)
	none := bot.Respond("add milk", nil)
	assert.Equal(t, "none", none.Rule)
	assert.Equal(t, helpText, none.Text)
}

func TestCleanQuery(t *testing.T) {
	cases := map[string]string{
		" some whole milk to my shopping list please!": "whole milk",
		"the bagels?":      "bagels",
		"is whole milk":    "whole milk",
		"gala apples cost": "gala apples",
		"   ":              "",
		"2% milk":          "2% milk",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanQuery(in), in)
	}
}
