package wire

import "fmt"

// CommandID identifies the three Control Point commands (§4.C) and the
// response kind they produce on the Data Source.
type CommandID uint8

const (
	CommandGetNotificationAttributes CommandID = 0x00
	CommandGetAppAttributes          CommandID = 0x01
	CommandPerformNotificationAction CommandID = 0x02
)

// NotifAttributeID indexes the per-notification attribute-subscription
// table (§3).
type NotifAttributeID uint8

const (
	NotifAttrAppIdentifier       NotifAttributeID = 0
	NotifAttrTitle               NotifAttributeID = 1
	NotifAttrSubtitle            NotifAttributeID = 2
	NotifAttrMessage             NotifAttributeID = 3
	NotifAttrMessageSize         NotifAttributeID = 4
	NotifAttrDate                NotifAttributeID = 5
	NotifAttrPositiveActionLabel NotifAttributeID = 6
	NotifAttrNegativeActionLabel NotifAttributeID = 7
)

// NumNotifAttributes is the size of the notification attribute table.
const NumNotifAttributes = 8

// HasLengthField reports whether the GetNotifAttrs command must follow this
// attribute id with a requested max_len field (§4.C): Title, Subtitle, and
// Message are the three variable-length text attributes.
func (id NotifAttributeID) HasLengthField() bool {
	return id == NotifAttrTitle || id == NotifAttrSubtitle || id == NotifAttrMessage
}

// String returns the attribute name.
func (id NotifAttributeID) String() string {
	switch id {
	case NotifAttrAppIdentifier:
		return "AppIdentifier"
	case NotifAttrTitle:
		return "Title"
	case NotifAttrSubtitle:
		return "Subtitle"
	case NotifAttrMessage:
		return "Message"
	case NotifAttrMessageSize:
		return "MessageSize"
	case NotifAttrDate:
		return "Date"
	case NotifAttrPositiveActionLabel:
		return "PositiveActionLabel"
	case NotifAttrNegativeActionLabel:
		return "NegativeActionLabel"
	default:
		return fmt.Sprintf("NotifAttr(%d)", uint8(id))
	}
}

// AppAttributeID indexes the per-app attribute-subscription table.
type AppAttributeID uint8

const (
	AppAttrDisplayName AppAttributeID = 0
)

// NumAppAttributes is the size of the app attribute table.
const NumAppAttributes = 1

// String returns the attribute name.
func (id AppAttributeID) String() string {
	switch id {
	case AppAttrDisplayName:
		return "DisplayName"
	default:
		return fmt.Sprintf("AppAttr(%d)", uint8(id))
	}
}

// ActionID selects a positive or negative notification action for
// PerformNotificationAction.
type ActionID uint8

const (
	ActionPositive ActionID = 0
	ActionNegative ActionID = 1
)

func (a ActionID) String() string {
	switch a {
	case ActionPositive:
		return "Positive"
	case ActionNegative:
		return "Negative"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// MaxAttributeLen is the largest max_len an attribute-subscription entry
// may declare (§3); Add rejects storage longer than this. When received
// data fills the whole storage, the parser overwrites its last byte with
// the NUL terminator.
const MaxAttributeLen = 32

// AttributeEntry is one slot in an attribute-subscription table
// (§3: "{ requested: bool; max_len: u16; storage: buffer }").
type AttributeEntry struct {
	Requested bool
	MaxLen    uint16
	Storage   []byte
}

// Registered reports whether the caller has supplied usable storage for
// this entry: 1 <= MaxLen <= 32 and Storage is at least MaxLen bytes.
func (e AttributeEntry) Registered() bool {
	return e.Storage != nil && e.MaxLen >= 1 && e.MaxLen <= MaxAttributeLen && len(e.Storage) >= int(e.MaxLen)
}

// AttributeTable is a fixed-size table of attribute-subscription entries,
// indexed by NotifAttributeID or AppAttributeID.
type AttributeTable struct {
	entries []AttributeEntry
}

// NewNotifAttributeTable returns an empty notification attribute table.
func NewNotifAttributeTable() *AttributeTable {
	return &AttributeTable{entries: make([]AttributeEntry, NumNotifAttributes)}
}

// NewAppAttributeTable returns an empty app attribute table.
func NewAppAttributeTable() *AttributeTable {
	return &AttributeTable{entries: make([]AttributeEntry, NumAppAttributes)}
}

// Len returns the number of slots in the table.
func (t *AttributeTable) Len() int { return len(t.entries) }

// Add registers id as requested with the given storage, per §4.D attr_add.
// buf must be non-nil and 1 <= len(buf) <= MaxAttributeLen.
func (t *AttributeTable) Add(id uint8, buf []byte) error {
	if int(id) >= len(t.entries) {
		return fmt.Errorf("%w: attribute id %d out of range", ErrInvalid, id)
	}
	if buf == nil || len(buf) < 1 || len(buf) > MaxAttributeLen {
		return fmt.Errorf("%w: buffer length must be 1..%d", ErrInvalid, MaxAttributeLen)
	}
	t.entries[id] = AttributeEntry{Requested: true, MaxLen: uint16(len(buf)), Storage: buf}
	return nil
}

// Get returns the entry at id and whether id is in range.
func (t *AttributeTable) Get(id uint8) (AttributeEntry, bool) {
	if int(id) >= len(t.entries) {
		return AttributeEntry{}, false
	}
	return t.entries[id], true
}

// RequestedCount returns the number of entries currently marked requested.
// This is read at dispatch time to seed the parser's expected_attr_count
// (§3 invariant: set exactly once, at dispatch).
func (t *AttributeTable) RequestedCount() int {
	n := 0
	for _, e := range t.entries {
		if e.Requested {
			n++
		}
	}
	return n
}

// RequestedIDs returns the ids of requested entries in ascending order, the
// order the Control Point encoder must emit them in (§4.C).
func (t *AttributeTable) RequestedIDs() []uint8 {
	var ids []uint8
	for i, e := range t.entries {
		if e.Requested {
			ids = append(ids, uint8(i))
		}
	}
	return ids
}
