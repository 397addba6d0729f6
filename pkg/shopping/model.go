package shopping

import (
	"time"

	"github.com/shopspring/decimal"

	"grocerease/pkg/inventory"
)

// Entry is one line of a shopping list.
type Entry struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	FaceID   string          `json:"face_id"`
	Price    decimal.Decimal `json:"price"`
	Unit     inventory.Unit  `json:"unit"`
	Quantity int             `json:"quantity"`
}

// EntryFor turns a catalog item into a list entry.
func EntryFor(item inventory.Item, quantity int) Entry {
	return Entry{
		ItemID:   item.ID,
		Name:     item.Name,
		FaceID:   item.FaceID,
		Price:    item.Price,
		Unit:     item.Unit,
		Quantity: quantity,
	}
}

// Sender distinguishes the two sides of a chat.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one chat line kept in the session history.
type Message struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Session is the mutable state of one shopper between Open and Close or expiry.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	List      []Entry   `json:"list"`
	History   []Message `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Total sums price times quantity over the list.
func (s Session) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.List {
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}

func (s Session) clone() Session {
	out := s
	out.List = append([]Entry(nil), s.List...)
	out.History = append([]Message(nil), s.History...)
	return out
}
