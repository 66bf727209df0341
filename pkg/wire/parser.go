package wire

type parserState uint8

const (
	stateIdle parserState = iota
	stateCommandID
	stateNotifUID
	stateAppID
	stateAttrID
	stateAttrLen1
	stateAttrLen2
	stateAttrData
	stateAttrSkip
	stateDone
)

// maxEchoedAppID bounds the app identifier a provider echoes back in a
// GetAppAttrs response. It is not attribute storage and is never exposed
// to the caller beyond the final string, so a generous fixed cap is
// enough to keep parsing allocation-free in steady state.
const maxEchoedAppID = 255

// Parser is the Data Source byte-stream reassembler (§4.B). It is
// re-entrant across record boundaries: any field may be split across
// multiple calls to Feed. A Parser is only useful once armed for an
// outstanding command; bytes fed while idle are discarded.
type Parser struct {
	state parserState

	armedCommand CommandID
	table        *AttributeTable
	nbOfAttr     int

	expectedAttrCount int

	notifUID    uint32
	notifUIDIdx int

	appIDBuf []byte

	currentAttrID   uint8
	currentEntry    AttributeEntry
	currentRequested bool
	currentAttrLen  uint16
	attrLenLowByte  uint8
	writeIndex      int
}

// NewParser returns an idle parser. Arm must be called once per dispatched
// command before the matching response bytes arrive.
func NewParser() *Parser {
	return &Parser{state: stateIdle}
}

// Arm binds the parser to the attribute table that governs the next
// response and captures expected_attr_count at the moment of dispatch
// (§3 invariant), exactly once per command.
func (p *Parser) Arm(cmd CommandID, table *AttributeTable) {
	p.armedCommand = cmd
	p.table = table
	p.nbOfAttr = table.Len()
	p.expectedAttrCount = table.RequestedCount()
	p.state = stateCommandID
	p.appIDBuf = p.appIDBuf[:0]
	p.notifUIDIdx = 0
	p.notifUID = 0
}

// Idle reports whether the parser has not been armed since construction or
// the last Reset. A parser that has finished a response is Done, not Idle.
func (p *Parser) Idle() bool { return p.state == stateIdle }

// Done reports whether the response the parser was last armed for has
// finished being consumed: either every requested attribute has been
// emitted, or the parser hit malformed/out-of-range framing and silently
// discarded the remainder (§7). A caller uses this, not Idle, to decide
// when a dispatched command's Data Source response is fully received.
func (p *Parser) Done() bool { return p.state == stateDone }

// Reset drops any partially assembled response and returns the parser to
// idle, used on disconnect (§4.D on_disconnected).
func (p *Parser) Reset() {
	*p = Parser{state: stateIdle}
}

// Feed consumes record as the next bytes arriving on the Data Source
// characteristic, in order, and returns the attribute results completed
// by this call. Malformed or out-of-range framing is not reported as an
// error (§7): the parser silently transitions to done and discards the
// remainder of the response.
func (p *Parser) Feed(record []byte) []AttributeResult {
	var out []AttributeResult
	for _, b := range record {
		if p.state == stateIdle || p.state == stateDone {
			continue
		}
		if res := p.step(b); res != nil {
			out = append(out, *res)
		}
	}
	return out
}

// step advances the state machine by exactly one byte, returning the
// attribute result completed by this byte, if any.
func (p *Parser) step(b byte) *AttributeResult {
	switch p.state {
	case stateCommandID:
		switch {
		case b == byte(CommandGetNotificationAttributes) && p.armedCommand == CommandGetNotificationAttributes:
			p.state = stateNotifUID
		case b == byte(CommandGetAppAttributes) && p.armedCommand == CommandGetAppAttributes:
			p.state = stateAppID
		default:
			p.state = stateDone
		}

	case stateNotifUID:
		shift := uint(p.notifUIDIdx) * 8
		p.notifUID |= uint32(b) << shift
		p.notifUIDIdx++
		if p.notifUIDIdx == 4 {
			p.state = stateAttrID
		}

	case stateAppID:
		if b == 0 {
			p.state = stateAttrID
		} else if len(p.appIDBuf) < maxEchoedAppID {
			p.appIDBuf = append(p.appIDBuf, b)
		}

	case stateAttrID:
		if int(b) >= p.nbOfAttr {
			p.state = stateDone
			return nil
		}
		entry, _ := p.table.Get(b)
		p.currentAttrID = b
		p.currentEntry = entry
		p.currentRequested = entry.Requested && entry.Registered()
		if p.expectedAttrCount == 0 {
			p.state = stateDone
			return nil
		}
		if p.currentRequested {
			p.expectedAttrCount--
		}
		p.currentAttrLen = 0
		p.state = stateAttrLen1

	case stateAttrLen1:
		p.attrLenLowByte = b
		p.state = stateAttrLen2

	case stateAttrLen2:
		p.currentAttrLen = uint16(p.attrLenLowByte) | uint16(b)<<8
		p.writeIndex = 0
		switch {
		case p.currentAttrLen == 0:
			var res *AttributeResult
			if p.currentRequested {
				r := p.emit(p.currentEntry.Storage[:0])
				res = &r
			}
			p.advancePastAttribute()
			return res
		case !p.currentRequested:
			p.state = stateAttrSkip
		default:
			p.state = stateAttrData
		}

	case stateAttrData:
		minLen := int(p.currentAttrLen)
		if int(p.currentEntry.MaxLen) < minLen {
			minLen = int(p.currentEntry.MaxLen)
		}
		p.currentEntry.Storage[p.writeIndex] = b
		p.writeIndex++
		if p.writeIndex == minLen {
			termIdx := p.writeIndex
			if termIdx >= len(p.currentEntry.Storage) {
				termIdx = len(p.currentEntry.Storage) - 1
			}
			p.currentEntry.Storage[termIdx] = 0
			res := p.emit(p.currentEntry.Storage[:termIdx])
			if p.writeIndex < int(p.currentAttrLen) {
				p.state = stateAttrSkip
				return &res
			}
			p.advancePastAttribute()
			return &res
		}

	case stateAttrSkip:
		p.writeIndex++
		if p.writeIndex == int(p.currentAttrLen) {
			p.advancePastAttribute()
		}
	}
	return nil
}

// advancePastAttribute picks attr_id (more requested attributes pending)
// or done (the last requested attribute of this response just completed).
func (p *Parser) advancePastAttribute() {
	if p.expectedAttrCount == 0 {
		p.state = stateDone
		return
	}
	p.state = stateAttrID
}

func (p *Parser) emit(data []byte) AttributeResult {
	if p.armedCommand == CommandGetAppAttributes {
		return AttributeResult{
			Kind:        ResponseAppAttrs,
			AppID:       string(p.appIDBuf),
			AttributeID: p.currentAttrID,
			Data:        data,
		}
	}
	return AttributeResult{
		Kind:        ResponseNotifAttrs,
		NotifUID:    p.notifUID,
		AttributeID: p.currentAttrID,
		Data:        data,
	}
}
