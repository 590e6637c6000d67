package models

// Wire payload shapes exchanged with the backend through the transport
// collaborator. Encoding is owned by the adapter; the engine only sees the
// decoded structs.

// HeadRevision asks the backend for its newest snapshot.
const HeadRevision int64 = -1

// PageRequest asks for one page of contact changes between two revisions.
// ToRevision is HeadRevision on the first page of a batch; every later page
// must repeat the anchor learned from the first response.
type PageRequest struct {
	PageIndex    int   `json:"page_index"`
	PageSize     int   `json:"page_size"`
	FromRevision int64 `json:"from_revision"`
	ToRevision   int64 `json:"to_revision"`
}

// ContactsPage is one page of a revision-anchored download. NumberOfPages
// and Version are pointers so a missing field in the response is
// distinguishable from zero; both are mandatory on the first page.
type ContactsPage struct {
	Contacts      []Contact `json:"contacts"`
	CurrentPage   int       `json:"current_page"`
	NumberOfPages *int      `json:"number_of_pages,omitempty"`
	Version       *int64    `json:"version,omitempty"`
}

// AddContactsRequest uploads a batch of locally created contacts.
type AddContactsRequest struct {
	Contacts []Contact `json:"contacts"`
	Length   int       `json:"length"`
}

// AddContactsResponse mirrors the request positionally: element i answers
// request contact i. A returned contact without a valid backend id denotes
// a server-side rejection of that contact.
type AddContactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

// DetailChange is one detail-level change on the upload wire. A change
// without a backend detail id is an addition; the response names the
// assigned id in the matching position.
type DetailChange struct {
	BackendContactID int64       `json:"backend_contact_id"`
	BackendDetailID  int64       `json:"backend_detail_id"`
	Key              DetailKey   `json:"key"`
	Value            string      `json:"value"`
	Flags            DetailFlags `json:"flags"`
}

// ModifyDetailsRequest uploads locally added or modified details.
type ModifyDetailsRequest struct {
	Changes []DetailChange `json:"changes"`
	Length  int            `json:"length"`
}

// ModifyDetailsResponse returns backend detail ids positionally: element
// i answers request change i.
type ModifyDetailsResponse struct {
	DetailIDs []int64 `json:"detail_ids"`
}

// DeleteContactsRequest uploads locally deleted contacts by backend id.
type DeleteContactsRequest struct {
	BackendIDs []int64 `json:"backend_ids"`
	Length     int     `json:"length"`
}

// DeleteDetailsRequest uploads locally deleted details by backend id.
type DeleteDetailsRequest struct {
	DetailIDs []int64 `json:"detail_ids"`
	Length    int     `json:"length"`
}

// BatchAck acknowledges a deletion or group-relation batch. Count must
// equal the request length or the response is treated as malformed.
type BatchAck struct {
	Count int `json:"count"`
}

// GroupRelation links one contact to one backend group.
type GroupRelation struct {
	BackendContactID int64 `json:"backend_contact_id"`
	GroupID          int64 `json:"group_id"`
}

// GroupChangesRequest uploads group membership additions or removals.
type GroupChangesRequest struct {
	Relations []GroupRelation `json:"relations"`
	Additions bool            `json:"additions"`
	Length    int             `json:"length"`
}

// ThumbnailRequest fetches or pushes one page of contact thumbnails by
// backend contact id. Binary transport is owned by the adapter.
type ThumbnailRequest struct {
	BackendIDs []int64 `json:"backend_ids"`
	Upload     bool    `json:"upload"`
}

// ThumbnailPage acknowledges one thumbnail page.
type ThumbnailPage struct {
	Completed []int64 `json:"completed"`
}
