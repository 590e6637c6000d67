package models

import "time"

// ChangeLogType partitions the change-log table. The upload reconciler
// drains the partitions strictly in declaration order.
type ChangeLogType int

const (
	ChangeLogNewContact ChangeLogType = iota
	ChangeLogModifiedDetail
	ChangeLogDeletedContact
	ChangeLogDeletedDetail
	ChangeLogGroupAddition
	ChangeLogGroupDeletion
)

func (t ChangeLogType) String() string {
	switch t {
	case ChangeLogNewContact:
		return "new_contact"
	case ChangeLogModifiedDetail:
		return "modified_detail"
	case ChangeLogDeletedContact:
		return "deleted_contact"
	case ChangeLogDeletedDetail:
		return "deleted_detail"
	case ChangeLogGroupAddition:
		return "group_addition"
	case ChangeLogGroupDeletion:
		return "group_deletion"
	default:
		return "unknown"
	}
}

// ChangeLogPartitions lists every partition in drain order.
var ChangeLogPartitions = []ChangeLogType{
	ChangeLogNewContact,
	ChangeLogModifiedDetail,
	ChangeLogDeletedContact,
	ChangeLogDeletedDetail,
	ChangeLogGroupAddition,
	ChangeLogGroupDeletion,
}

// ChangeLogEntry is one pending outbound change recorded by the local
// store. Rows are deleted only after the matching server acknowledgment has
// been processed, which gives the upload path at-least-once semantics.
type ChangeLogEntry struct {
	RowID            int64         `json:"row_id"`
	Type             ChangeLogType `json:"type"`
	LocalContactID   int64         `json:"local_contact_id"`
	LocalDetailID    int64         `json:"local_detail_id"`
	BackendContactID int64         `json:"backend_contact_id"`
	BackendDetailID  int64         `json:"backend_detail_id"`
	GroupID          int64         `json:"group_id"`
	Key              DetailKey     `json:"key"`
	Value            string        `json:"value"`
	Flags            DetailFlags   `json:"flags"`
	CreatedAt        time.Time     `json:"created_at"`
}
