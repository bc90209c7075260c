package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Request is an order request. Every field is optional when decoded;
// Validate decides what is required.
type Request struct {
	UserID   *UserID  `json:"user_id,omitempty"`
	Items    ItemList `json:"items"`
	Coupon   *string  `json:"coupon,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

// Item is a single line item. A nil field means it was missing.
type Item struct {
	Price *decimal.Decimal `json:"price,omitempty"`
	Qty   *decimal.Decimal `json:"qty,omitempty"`

	// set when the key is present but its value is not a JSON number
	priceNotNumber bool
	qtyNotNumber   bool
}

// Request keys are matched exactly, unlike encoding/json struct tags
const (
	keyUserID   = "user_id"
	keyItems    = "items"
	keyCoupon   = "coupon"
	keyCurrency = "currency"
	keyPrice    = "price"
	keyQty      = "qty"
)

// UnmarshalJSON reads only the exact lower-case keys
func (r *Request) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Request{}

	if raw, ok := fields[keyUserID]; ok && !isNull(raw) {
		r.UserID = &UserID{}
		if err := r.UserID.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	if raw, ok := fields[keyItems]; ok {
		if err := r.Items.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	if raw, ok := fields[keyCoupon]; ok {
		if err := json.Unmarshal(raw, &r.Coupon); err != nil {
			return fmt.Errorf("coupon: %w", err)
		}
	}
	if raw, ok := fields[keyCurrency]; ok {
		if err := json.Unmarshal(raw, &r.Currency); err != nil {
			return fmt.Errorf("currency: %w", err)
		}
	}

	return nil
}

// UnmarshalJSON reads the exact price and qty keys. Values that are not
// JSON numbers, quoted numbers included, are flagged for Validate.
func (it *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*it = Item{}

	if raw, ok := fields[keyPrice]; ok {
		it.Price, it.priceNotNumber = decodeNumber(raw)
	}
	if raw, ok := fields[keyQty]; ok {
		it.Qty, it.qtyNotNumber = decodeNumber(raw)
	}

	return nil
}

// MarshalJSON writes price and qty as JSON numbers
func (it Item) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, 2)
	if it.Price != nil {
		fields[keyPrice] = json.RawMessage(it.Price.String())
	}
	if it.Qty != nil {
		fields[keyQty] = json.RawMessage(it.Qty.String())
	}
	return json.Marshal(fields)
}

// decodeNumber returns the value of a JSON number literal. For anything
// else it returns a non-nil zero and notNumber set, so the key still counts
// as present.
func decodeNumber(raw json.RawMessage) (value *decimal.Decimal, notNumber bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		if d, err := decimal.NewFromString(string(raw)); err == nil {
			return &d, false
		}
	}
	zero := decimal.Zero
	return &zero, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// NewItem builds an item with both fields present
func NewItem(price, qty decimal.Decimal) Item {
	return Item{Price: &price, Qty: &qty}
}

// UserID is any non-null JSON scalar identifying the user. It keeps the
// original JSON encoding so it can be echoed back unchanged.
type UserID struct {
	raw json.RawMessage
}

// NewUserID builds a string user id
func NewUserID(id string) *UserID {
	raw, _ := json.Marshal(id)
	return &UserID{raw: raw}
}

// UnmarshalJSON accepts strings, numbers and booleans
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("user_id: empty value")
	}

	switch data[0] {
	case '{', '[':
		return fmt.Errorf("user_id must be a scalar")
	}

	u.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the user id in its original JSON form
func (u UserID) MarshalJSON() ([]byte, error) {
	if len(u.raw) == 0 {
		return []byte("null"), nil
	}
	return u.raw, nil
}

// String returns the unquoted form of string ids and the literal JSON text
// of numbers and booleans.
func (u UserID) String() string {
	if len(u.raw) > 0 && u.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(u.raw, &s); err == nil {
			return s
		}
	}
	return string(u.raw)
}

// ItemList is the items field of a request. It distinguishes a missing
// field from one that is present but not a list.
type ItemList struct {
	present bool
	isList  bool
	items   []Item
}

// NewItemList builds a present list of items
func NewItemList(items ...Item) ItemList {
	if items == nil {
		items = []Item{}
	}
	return ItemList{present: true, isList: true, items: items}
}

// Present reports whether the items field was supplied
func (l ItemList) Present() bool { return l.present }

// IsList reports whether the items field was a JSON array
func (l ItemList) IsList() bool { return l.isList }

// Items returns the decoded items
func (l ItemList) Items() []Item { return l.items }

// Len returns the number of items
func (l ItemList) Len() int { return len(l.items) }

// UnmarshalJSON records the shape of the field instead of rejecting it.
// Array elements that are not objects decode as items with no fields.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ItemList{}
		return nil
	}

	l.present = true
	if len(data) == 0 || data[0] != '[' {
		l.isList = false
		l.items = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.isList = true
	l.items = make([]Item, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		if err := json.Unmarshal(elem, &l.items[i]); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}

	return nil
}

// MarshalJSON writes the items as an array, or null when absent
func (l ItemList) MarshalJSON() ([]byte, error) {
	if !l.present || !l.isList {
		return []byte("null"), nil
	}
	return json.Marshal(l.items)
}

// Parse decodes a JSON order request. Missing fields are left absent;
// a body that is not a JSON object fails with ErrMalformedRequest.
func Parse(data []byte) (Request, error) {
	var req Request

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Request{}, newError(ErrMalformedRequest, "request must be a JSON object")
	}

	if err := req.UnmarshalJSON(trimmed); err != nil {
		return Request{}, newError(ErrMalformedRequest, fmt.Sprintf("invalid request body: %v", err))
	}

	return req, nil
}
