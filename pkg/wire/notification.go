package wire

import "encoding/binary"

// EventID identifies the kind of change a Notification Source record reports.
type EventID uint8

const (
	EventAdded    EventID = 0
	EventModified EventID = 1
	EventRemoved  EventID = 2
)

// String returns the event name.
func (e EventID) String() string {
	switch e {
	case EventAdded:
		return "Added"
	case EventModified:
		return "Modified"
	case EventRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// IsValid reports whether e is one of the three defined event kinds.
func (e EventID) IsValid() bool {
	return e <= EventRemoved
}

// Flags is the bitfield carried in byte 1 of a Notification Source record.
// Bits outside the five defined positions are ignored: neither cleared nor
// reported back to the caller.
type Flags uint8

const (
	FlagSilent         Flags = 1 << 0
	FlagImportant      Flags = 1 << 1
	FlagPreExisting    Flags = 1 << 2
	FlagPositiveAction Flags = 1 << 3
	FlagNegativeAction Flags = 1 << 4
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// CategoryID classifies the application domain of the notification.
type CategoryID uint8

const (
	CategoryOther              CategoryID = 0
	CategoryIncomingCall       CategoryID = 1
	CategoryMissedCall         CategoryID = 2
	CategoryVoicemail          CategoryID = 3
	CategorySocial             CategoryID = 4
	CategorySchedule           CategoryID = 5
	CategoryEmail              CategoryID = 6
	CategoryNews               CategoryID = 7
	CategoryHealthAndFitness   CategoryID = 8
	CategoryBusinessAndFinance CategoryID = 9
	CategoryLocation           CategoryID = 10
	CategoryEntertainment      CategoryID = 11
)

// NumCategories is the count of defined category values (0..NumCategories-1).
const NumCategories = 12

// IsValid reports whether c is a defined category (0..11).
func (c CategoryID) IsValid() bool { return c < NumCategories }

// String returns the category name.
func (c CategoryID) String() string {
	switch c {
	case CategoryOther:
		return "Other"
	case CategoryIncomingCall:
		return "IncomingCall"
	case CategoryMissedCall:
		return "MissedCall"
	case CategoryVoicemail:
		return "Voicemail"
	case CategorySocial:
		return "Social"
	case CategorySchedule:
		return "Schedule"
	case CategoryEmail:
		return "Email"
	case CategoryNews:
		return "News"
	case CategoryHealthAndFitness:
		return "HealthAndFitness"
	case CategoryBusinessAndFinance:
		return "BusinessAndFinance"
	case CategoryLocation:
		return "Location"
	case CategoryEntertainment:
		return "Entertainment"
	default:
		return "Unknown"
	}
}

// SummaryRecordSize is the fixed length of a Notification Source record.
const SummaryRecordSize = 8

// SummaryNotification is the decoded form of an 8-byte Notification Source
// record (§4.A).
type SummaryNotification struct {
	EventID       EventID
	Flags         Flags
	CategoryID    CategoryID
	CategoryCount uint8
	NotificationUID uint32
}

// DecodeSummary decodes one Notification Source record.
//
// If record is not exactly SummaryRecordSize bytes, decoding is best-effort
// (missing trailing bytes read as zero, extra bytes ignored) and ok is
// false — the caller must surface exactly one InvalidNotif event and must
// not also emit a Notif event for the same record (§9, resolving the
// reference implementation's double-emission bug).
//
// If the record is the right length but carries an out-of-range EventID or
// CategoryID, the decode itself is returned (it may still be useful to a
// caller) with ok false.
func DecodeSummary(record []byte) (n SummaryNotification, ok bool) {
	at := func(i int) byte {
		if i < len(record) {
			return record[i]
		}
		return 0
	}

	n.EventID = EventID(at(0))
	n.Flags = Flags(at(1))
	n.CategoryID = CategoryID(at(2))
	n.CategoryCount = at(3)

	var uidBuf [4]byte
	for i := range uidBuf {
		uidBuf[i] = at(4 + i)
	}
	n.NotificationUID = binary.LittleEndian.Uint32(uidBuf[:])

	if len(record) != SummaryRecordSize {
		return n, false
	}
	if !n.EventID.IsValid() || !n.CategoryID.IsValid() {
		return n, false
	}
	return n, true
}
