// Package native abstracts the device address book behind one capability
// interface. Two capability profiles (legacy and modern platform
// generations) are selected at construction by a factory; reconciliation
// logic must only depend on the active profile through IsKeySupported and
// the composite-field descriptors.
package native

import "github.com/nowpeople/contact-sync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/native_mock.go -package=mock

// Accessor is the device address-book collaborator consumed by the import
// and export state machines.
type Accessor interface {
	// ContactIDs returns the native ids of all contacts in the account,
	// ascending. An empty account selects the default address book.
	ContactIDs(account string) ([]int64, error)

	// Contact reads one native contact as ChangeRecord projections.
	Contact(id int64) ([]models.ChangeRecord, error)

	// AddContact writes a new contact and returns id-feedback records
	// (ChangeUpdateNativeContactID / ChangeUpdateNativeDetailID) naming
	// the identifiers the device assigned, or nil when the write yielded
	// no usable identifiers.
	AddContact(account string, records []models.ChangeRecord) ([]models.ChangeRecord, error)

	// UpdateContact applies detail-level changes to an existing contact
	// and returns id-feedback records for any newly created details.
	UpdateContact(records []models.ChangeRecord) ([]models.ChangeRecord, error)

	// RemoveContact deletes a native contact.
	RemoveContact(id int64) error

	// IsKeySupported reports whether the active capability profile can
	// store the given detail kind.
	IsKeySupported(key models.DetailKey) bool

	// PreserveOrganizationOnTitleDelete reports the platform's
	// organization/title fallback: when true, deleting the title of a
	// contact that still carries department text must be expressed as an
	// update preserving the residue instead of a detail delete.
	PreserveOrganizationOnTitleDelete() bool

	// RegisterObserver subscribes fn to native address-book change
	// notifications.
	RegisterObserver(fn func())
}
