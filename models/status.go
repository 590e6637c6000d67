package models

// SyncTask names the sync phase a progress snapshot belongs to.
type SyncTask int

const (
	TaskNone SyncTask = iota
	TaskDownloadServerContacts
	TaskUploadServerContacts
	TaskFetchNativeContacts
	TaskUpdateNativeContacts
	TaskDownloadThumbnails
	TaskUploadThumbnails
)

func (t SyncTask) String() string {
	switch t {
	case TaskDownloadServerContacts:
		return "download_server_contacts"
	case TaskUploadServerContacts:
		return "upload_server_contacts"
	case TaskFetchNativeContacts:
		return "fetch_native_contacts"
	case TaskUpdateNativeContacts:
		return "update_native_contacts"
	case TaskDownloadThumbnails:
		return "download_thumbnails"
	case TaskUploadThumbnails:
		return "upload_thumbnails"
	default:
		return "none"
	}
}

// TaskSubStatus refines a SyncTask for progress reporting.
type TaskSubStatus int

const (
	SubStatusNone TaskSubStatus = iota
	SubStatusSentContacts
	SubStatusReceivedContacts
	SubStatusSentChanges
)

func (s TaskSubStatus) String() string {
	switch s {
	case SubStatusSentContacts:
		return "sent_contacts"
	case SubStatusReceivedContacts:
		return "received_contacts"
	case SubStatusSentChanges:
		return "sent_changes"
	default:
		return "none"
	}
}

// SyncStatus is an immutable progress snapshot. One is created per progress
// update and discarded after delivery to the observer.
type SyncStatus struct {
	Percent            int
	CurrentContactName string
	Task               SyncTask
	SubStatus          TaskSubStatus
	Done               int
	Total              int
}

// NewSyncStatus clamps percent into [0,100] and builds a snapshot.
func NewSyncStatus(percent int, name string, task SyncTask, sub TaskSubStatus, done, total int) SyncStatus {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return SyncStatus{
		Percent:            percent,
		CurrentContactName: name,
		Task:               task,
		SubStatus:          sub,
		Done:               done,
		Total:              total,
	}
}
