package wire

import "fmt"

// Encoder serializes the three Control Point commands into a caller-owned
// staging buffer of fixed capacity W (§4.C). It holds no connection or
// concurrency state; the session package owns the mutex that guarantees
// at most one encode is outstanding at a time.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder writing into a buffer of capacity w bytes.
// W must accommodate the largest app id plus framing; 18 bytes is the
// spec's recommended minimum for fixed-size commands.
func NewEncoder(w int) *Encoder {
	return &Encoder{buf: make([]byte, 0, w)}
}

// GetNotifAttrs encodes a GetNotificationAttributes command for uid,
// requesting every attribute currently marked requested in table, each
// with its registered max_len where the attribute carries a length field
// (§4.C). The returned slice aliases the encoder's internal buffer and is
// valid until the next call on this encoder.
func (e *Encoder) GetNotifAttrs(uid uint32, table *AttributeTable) ([]byte, error) {
	if cap(e.buf) < 5 {
		return nil, ErrNoSpace
	}
	e.buf = e.buf[:0]
	e.buf = append(e.buf, byte(CommandGetNotificationAttributes))
	e.buf = appendLE32(e.buf, uid)

	for _, id := range table.RequestedIDs() {
		entry, _ := table.Get(id)
		var out bool
		e.buf, out = appendCapped(e.buf, cap(e.buf), id)
		if !out {
			return nil, ErrNoSpace
		}
		if NotifAttributeID(id).HasLengthField() {
			var ok bool
			e.buf, ok = appendLE16Capped(e.buf, cap(e.buf), entry.MaxLen)
			if !ok {
				return nil, ErrNoSpace
			}
		}
	}
	return e.buf, nil
}

// GetAppAttrs encodes a GetAppAttributes command for appID, requesting
// every attribute marked requested in table (§4.C). appID must be
// non-empty and must not contain a NUL byte; the wire format appends the
// terminator itself, adapting the C contract "app_id[len] == '\0'" to an
// idiomatic Go string argument.
//
// Encoding runs through the spec's CMD_ID -> APP_ID -> ATTR_ID ->
// DONE|ABORT sub-state machine: any attempt to exceed the buffer capacity
// aborts the whole encode and returns ErrNoSpace.
func (e *Encoder) GetAppAttrs(appID string, table *AttributeTable) ([]byte, error) {
	if len(appID) == 0 {
		return nil, fmt.Errorf("%w: app id must not be empty", ErrInvalid)
	}
	for i := 0; i < len(appID); i++ {
		if appID[i] == 0 {
			return nil, fmt.Errorf("%w: app id must not contain a NUL byte", ErrInvalid)
		}
	}

	e.buf = e.buf[:0]
	capacity := cap(e.buf)
	state := cpStateCmdID

	var ok bool
	if e.buf, ok = appendCapped(e.buf, capacity, byte(CommandGetAppAttributes)); !ok {
		state = cpStateAbort
	} else {
		state = cpStateAppID
	}

	for i := 0; state == cpStateAppID && i < len(appID); i++ {
		if e.buf, ok = appendCapped(e.buf, capacity, appID[i]); !ok {
			state = cpStateAbort
		}
	}
	if state == cpStateAppID {
		if e.buf, ok = appendCapped(e.buf, capacity, 0); !ok {
			state = cpStateAbort
		} else {
			state = cpStateAttrID
		}
	}
	if state == cpStateAttrID {
		for _, id := range table.RequestedIDs() {
			if e.buf, ok = appendCapped(e.buf, capacity, id); !ok {
				state = cpStateAbort
				break
			}
		}
		if state != cpStateAbort {
			state = cpStateDone
		}
	}
	if state == cpStateAbort {
		return nil, ErrNoSpace
	}
	return e.buf, nil
}

// PerformNotifAction encodes a fixed 6-byte PerformNotificationAction
// command (§4.C).
func (e *Encoder) PerformNotifAction(uid uint32, action ActionID) ([]byte, error) {
	const size = 6
	if size > cap(e.buf) {
		return nil, ErrNoSpace
	}
	e.buf = e.buf[:0]
	e.buf = append(e.buf, byte(CommandPerformNotificationAction))
	e.buf = appendLE32(e.buf, uid)
	e.buf = append(e.buf, byte(action))
	return e.buf, nil
}

type cpEncodeState uint8

const (
	cpStateCmdID cpEncodeState = iota
	cpStateAppID
	cpStateAttrID
	cpStateDone
	cpStateAbort
)

func appendLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendCapped(buf []byte, capacity int, b byte) ([]byte, bool) {
	if len(buf)+1 > capacity {
		return buf, false
	}
	return append(buf, b), true
}

func appendLE16Capped(buf []byte, capacity int, v uint16) ([]byte, bool) {
	if len(buf)+2 > capacity {
		return buf, false
	}
	return append(buf, byte(v), byte(v>>8)), true
}
