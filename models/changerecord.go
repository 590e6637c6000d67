package models

import "strconv"

// InvalidID is the sentinel value for every identifier field that has not
// been assigned yet. A ChangeRecord is created with all six identity fields
// set to InvalidID and gains real identifiers as it moves between stores.
const InvalidID int64 = -1

// ChangeType classifies what a ChangeRecord does to a contact.
type ChangeType int

const (
	ChangeUnknown ChangeType = iota
	ChangeAddContact
	ChangeUpdateContact
	ChangeDeleteContact
	ChangeAddDetail
	ChangeUpdateDetail
	ChangeDeleteDetail
	ChangeUpdateBackendContactID
	ChangeUpdateNativeContactID
	ChangeUpdateBackendDetailID
	ChangeUpdateNativeDetailID
)

// String returns a short label used in structured log fields.
func (t ChangeType) String() string {
	switch t {
	case ChangeAddContact:
		return "add_contact"
	case ChangeUpdateContact:
		return "update_contact"
	case ChangeDeleteContact:
		return "delete_contact"
	case ChangeAddDetail:
		return "add_detail"
	case ChangeUpdateDetail:
		return "update_detail"
	case ChangeDeleteDetail:
		return "delete_detail"
	case ChangeUpdateBackendContactID:
		return "update_backend_contact_id"
	case ChangeUpdateNativeContactID:
		return "update_native_contact_id"
	case ChangeUpdateBackendDetailID:
		return "update_backend_detail_id"
	case ChangeUpdateNativeDetailID:
		return "update_native_detail_id"
	default:
		return "unknown"
	}
}

// DetailKey identifies which contact attribute a ChangeRecord or
// ContactDetail carries.
type DetailKey int

const (
	KeyUnknown DetailKey = iota
	KeyName
	KeyNickname
	KeyDate
	KeyEmail
	KeyPhone
	KeyAddress
	KeyURL
	KeyInternetAddress
	KeyIMAddress
	KeyRole
	KeyOrganization
	KeyTitle
	KeyNote
	KeyBusiness
	KeyPresenceText
	KeyPhoto
	KeyLocation
	KeyGender
	KeyRelation
	KeyBookmark
	KeyInterest
	KeyFolder
	KeyGroup
	KeyLink
	KeyExternal
)

// keyAliases maps every DetailKey to its stable wire alias. Aliases are part
// of the persisted format and must never be renamed.
var keyAliases = map[DetailKey]string{
	KeyName:            "name",
	KeyNickname:        "nickname",
	KeyDate:            "date",
	KeyEmail:           "email",
	KeyPhone:           "phone",
	KeyAddress:         "address",
	KeyURL:             "url",
	KeyInternetAddress: "internet_address",
	KeyIMAddress:       "im_address",
	KeyRole:            "role",
	KeyOrganization:    "organization",
	KeyTitle:           "title",
	KeyNote:            "note",
	KeyBusiness:        "business",
	KeyPresenceText:    "presence_text",
	KeyPhoto:           "photo",
	KeyLocation:        "location",
	KeyGender:          "gender",
	KeyRelation:        "relation",
	KeyBookmark:        "bookmark",
	KeyInterest:        "interest",
	KeyFolder:          "folder",
	KeyGroup:           "group",
	KeyLink:            "link",
	KeyExternal:        "external",
}

var keysByAlias = func() map[string]DetailKey {
	m := make(map[string]DetailKey, len(keyAliases))
	for k, alias := range keyAliases {
		m[alias] = k
	}
	return m
}()

// Alias returns the stable serialization alias of the key, or "unknown" for
// keys without one.
func (k DetailKey) Alias() string {
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return "unknown"
}

func (k DetailKey) String() string { return k.Alias() }

// KeyFromAlias resolves a persisted alias back to its DetailKey.
// Unrecognized aliases map to KeyUnknown.
func KeyFromAlias(alias string) DetailKey {
	if k, ok := keysByAlias[alias]; ok {
		return k
	}
	return KeyUnknown
}

// DetailFlags qualifies a detail value (which phone, which address).
// Values combine as a bitmask.
type DetailFlags int

const (
	FlagNone      DetailFlags = 0
	FlagPreferred DetailFlags = 1 << 0
	FlagHome      DetailFlags = 1 << 1
	FlagCell      DetailFlags = 1 << 2
	FlagWork      DetailFlags = 1 << 3
	FlagBirthday  DetailFlags = 1 << 4
	FlagFax       DetailFlags = 1 << 5

	FlagHomeCell = FlagHome | FlagCell
	FlagWorkCell = FlagWork | FlagCell
	FlagHomeFax  = FlagHome | FlagFax
	FlagWorkFax  = FlagWork | FlagFax
)

// Destination is a bitmask naming the stores a change still has to reach.
type Destination int

const (
	DestinationNone    Destination = 0
	DestinationNative  Destination = 1 << 0
	DestinationLocal   Destination = 1 << 1
	DestinationBackend Destination = 1 << 2

	DestinationAll = DestinationNative | DestinationLocal | DestinationBackend
)

// Has reports whether d includes every store in target.
func (d Destination) Has(target Destination) bool { return d&target == target }

// ChangeRecord is the atomic unit of contact synchronization: one change to
// one contact attribute, addressed in all three identity spaces at once.
// Records are produced transiently by store readers and consumed immediately
// by writers; only their effects are persisted.
//
// The value payload is fixed at construction. Deriving a record with a
// different value goes through CopyWithValue, which keeps the identity
// fields, type, key, flags and destinations intact.
type ChangeRecord struct {
	Type         ChangeType
	Key          DetailKey
	Flags        DetailFlags
	Destinations Destination

	InternalContactID int64
	InternalDetailID  int64
	BackendContactID  int64
	BackendDetailID   int64
	NativeContactID   int64
	NativeDetailID    int64

	value string
}

// NewChangeRecord builds a record with all identity fields set to InvalidID.
func NewChangeRecord(t ChangeType, key DetailKey, value string, flags DetailFlags) ChangeRecord {
	return ChangeRecord{
		Type:              t,
		Key:               key,
		Flags:             flags,
		InternalContactID: InvalidID,
		InternalDetailID:  InvalidID,
		BackendContactID:  InvalidID,
		BackendDetailID:   InvalidID,
		NativeContactID:   InvalidID,
		NativeDetailID:    InvalidID,
		value:             value,
	}
}

// Value returns the record's payload.
func (c ChangeRecord) Value() string { return c.value }

// CopyWithValue returns a copy of the record carrying value instead of the
// original payload. All other fields are preserved.
func (c ChangeRecord) CopyWithValue(value string) ChangeRecord {
	out := c
	out.value = value
	return out
}

// CopyWithType returns a copy of the record retagged with t.
func (c ChangeRecord) CopyWithType(t ChangeType) ChangeRecord {
	out := c
	out.Type = t
	return out
}

// OrderedNativeDetailID is the native detail id used for diff ordering.
// Records without a detail-level id fall back to the contact-level id so
// that single-instance details still compare against each other.
func (c ChangeRecord) OrderedNativeDetailID() int64 {
	if c.NativeDetailID != InvalidID {
		return c.NativeDetailID
	}
	return c.NativeContactID
}

// LogValue renders a compact identity string for log fields.
func (c ChangeRecord) LogValue() string {
	return c.Type.String() + "/" + c.Key.Alias() +
		"#i" + strconv.FormatInt(c.InternalContactID, 10) +
		"b" + strconv.FormatInt(c.BackendContactID, 10) +
		"n" + strconv.FormatInt(c.NativeContactID, 10)
}
