package models

import "time"

// ContactDetail is one attribute row of a contact as held by the local
// store. It carries the detail's identifier in all three identity spaces.
type ContactDetail struct {
	LocalDetailID   int64       `json:"local_detail_id"`
	LocalContactID  int64       `json:"local_contact_id"`
	BackendDetailID int64       `json:"backend_detail_id"`
	NativeDetailID  int64       `json:"native_detail_id"`
	Key             DetailKey   `json:"key"`
	Value           string      `json:"value"`
	Flags           DetailFlags `json:"flags"`
	Deleted         bool        `json:"deleted"`
	NativePending   bool        `json:"native_pending"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}

// Equal reports whether two details describe the same attribute with the
// same content. Identity is compared by key plus whichever detail-level id
// both sides carry; content by value and flags. This is the detail-equality
// predicate used when reconciling downloaded contacts, so it deliberately
// ignores LocalDetailID (the stored copy has one, the wire copy does not).
func (d ContactDetail) Equal(other ContactDetail) bool {
	if d.Key != other.Key {
		return false
	}
	if d.BackendDetailID != InvalidID && other.BackendDetailID != InvalidID &&
		d.BackendDetailID != other.BackendDetailID {
		return false
	}
	return d.Value == other.Value && d.Flags == other.Flags
}

// Contact is the local store's view of one person. The core treats it as an
// opaque record: it only ever compares fields and projects details into
// ChangeRecords.
type Contact struct {
	LocalID   int64 `json:"local_id"`
	BackendID int64 `json:"backend_id"`
	NativeID  int64 `json:"native_id"`
	UserID    int64 `json:"user_id"`

	FriendOfMine bool     `json:"friend_of_mine"`
	Gender       int      `json:"gender"`
	AboutMe      string   `json:"about_me"`
	Sources      []string `json:"sources,omitempty"`
	GroupIDs     []int64  `json:"group_ids,omitempty"`

	Details []ContactDetail `json:"details,omitempty"`
	Deleted bool            `json:"deleted"`

	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DisplayName picks the value shown in progress snapshots: the name detail
// when present, else the first non-empty detail value.
func (c Contact) DisplayName() string {
	for _, d := range c.Details {
		if d.Key == KeyName && d.Value != "" {
			return d.Value
		}
	}
	for _, d := range c.Details {
		if d.Value != "" {
			return d.Value
		}
	}
	return ""
}

// ScalarFieldsEqual compares the top-level scalar fields checked before a
// downloaded contact is queued for modification.
func (c Contact) ScalarFieldsEqual(other Contact) bool {
	if c.FriendOfMine != other.FriendOfMine ||
		c.Gender != other.Gender ||
		c.UserID != other.UserID ||
		c.AboutMe != other.AboutMe {
		return false
	}
	if len(c.Sources) != len(other.Sources) {
		return false
	}
	for i := range c.Sources {
		if c.Sources[i] != other.Sources[i] {
			return false
		}
	}
	if len(c.GroupIDs) != len(other.GroupIDs) {
		return false
	}
	for i := range c.GroupIDs {
		if c.GroupIDs[i] != other.GroupIDs[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether a downloaded contact carries nothing worth
// storing: no details and no deletion marker.
func (c Contact) IsEmpty() bool {
	return len(c.Details) == 0 && !c.Deleted
}

// ChangeRecords projects the contact's live details into ChangeRecords of
// the given type, carrying over the full identity of each detail.
func (c Contact) ChangeRecords(t ChangeType) []ChangeRecord {
	records := make([]ChangeRecord, 0, len(c.Details))
	for _, d := range c.Details {
		if d.Deleted {
			continue
		}
		rec := NewChangeRecord(t, d.Key, d.Value, d.Flags)
		rec.InternalContactID = c.LocalID
		rec.InternalDetailID = d.LocalDetailID
		rec.BackendContactID = c.BackendID
		rec.BackendDetailID = d.BackendDetailID
		rec.NativeContactID = c.NativeID
		rec.NativeDetailID = d.NativeDetailID
		records = append(records, rec)
	}
	return records
}
