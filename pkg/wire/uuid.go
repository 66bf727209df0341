package wire

import "github.com/google/uuid"

// GATT service and characteristic UUIDs for ANCS, as specified by Apple.
var (
	ServiceUUID              = uuid.MustParse("7905F431-B5CE-4E99-A40F-4B1E122D00D0")
	NotificationSourceUUID   = uuid.MustParse("9FBF120D-6301-42D9-8C58-25E699A21DBD")
	ControlPointUUID         = uuid.MustParse("69D1D8F3-45E1-49A8-9821-9BBDFDAAD9D9")
	DataSourceUUID           = uuid.MustParse("22EAC6E9-24D6-4BB5-BE44-B36ACE7C7BFB")
)
