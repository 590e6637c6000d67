package native

import (
	"errors"
	"sort"
	"sync"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/models"
)

// ErrContactNotFound is returned when a native contact id does not exist.
var ErrContactNotFound = errors.New("native contact not found")

type nativeDetail struct {
	id    int64
	key   models.DetailKey
	value string
	flags models.DetailFlags
}

type nativeContact struct {
	id      int64
	account string
	details []nativeDetail
}

// memoryAccessor is the in-process address-book binding. It keeps the
// device book in memory behind the Accessor interface; the real device
// bridge slots in behind the same interface.
type memoryAccessor struct {
	capability Capability
	logger     *logger.Logger

	mu            sync.RWMutex
	contacts      map[int64]*nativeContact
	nextContactID int64
	nextDetailID  int64
	observers     []func()
}

func newMemoryAccessor(capability Capability, log *logger.Logger) *memoryAccessor {
	return &memoryAccessor{
		capability:    capability,
		logger:        log,
		contacts:      make(map[int64]*nativeContact),
		nextContactID: 1,
		nextDetailID:  1,
	}
}

func (m *memoryAccessor) IsKeySupported(key models.DetailKey) bool {
	return m.capability.IsKeySupported(key)
}

func (m *memoryAccessor) PreserveOrganizationOnTitleDelete() bool {
	return m.capability.PreserveOrganizationOnTitleDelete()
}

func (m *memoryAccessor) RegisterObserver(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *memoryAccessor) notify() {
	m.mu.RLock()
	observers := make([]func(), len(m.observers))
	copy(observers, m.observers)
	m.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}

func (m *memoryAccessor) ContactIDs(account string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.contacts))
	for _, c := range m.contacts {
		if c.account == account {
			ids = append(ids, c.id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Contact projects one native contact into ChangeRecords. Records come
// back untyped (ChangeUnknown): the reader states what is there, the diff
// decides what to do about it. Unsupported keys are filtered here so the
// diff never sees detail kinds the platform cannot store.
func (m *memoryAccessor) Contact(id int64) ([]models.ChangeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}

	records := make([]models.ChangeRecord, 0, len(c.details))
	for _, d := range c.details {
		if !m.capability.IsKeySupported(d.key) {
			continue
		}
		rec := models.NewChangeRecord(models.ChangeUnknown, d.key, d.value, d.flags)
		rec.NativeContactID = c.id
		rec.NativeDetailID = d.id
		records = append(records, rec)
	}
	return records, nil
}

func (m *memoryAccessor) AddContact(account string, records []models.ChangeRecord) ([]models.ChangeRecord, error) {
	m.mu.Lock()

	contact := &nativeContact{id: m.nextContactID, account: account}
	m.nextContactID++

	feedback := make([]models.ChangeRecord, 0, len(records)+1)

	for _, rec := range records {
		if !m.capability.IsKeySupported(rec.Key) {
			continue
		}
		detail := nativeDetail{
			id:    m.nextDetailID,
			key:   rec.Key,
			value: rec.Value(),
			flags: rec.Flags,
		}
		m.nextDetailID++
		contact.details = append(contact.details, detail)

		ack := rec.CopyWithType(models.ChangeUpdateNativeDetailID)
		ack.NativeContactID = contact.id
		ack.NativeDetailID = detail.id
		feedback = append(feedback, ack)
	}

	if len(contact.details) == 0 {
		m.mu.Unlock()
		return nil, nil
	}

	m.contacts[contact.id] = contact

	contactAck := models.NewChangeRecord(models.ChangeUpdateNativeContactID, models.KeyUnknown, "", models.FlagNone)
	if len(records) > 0 {
		contactAck.InternalContactID = records[0].InternalContactID
	}
	contactAck.NativeContactID = contact.id
	feedback = append([]models.ChangeRecord{contactAck}, feedback...)

	m.mu.Unlock()
	m.notify()
	return feedback, nil
}

func (m *memoryAccessor) UpdateContact(records []models.ChangeRecord) ([]models.ChangeRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	m.mu.Lock()

	contact, ok := m.contacts[records[0].NativeContactID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrContactNotFound
	}

	feedback := make([]models.ChangeRecord, 0, len(records))
	for _, rec := range records {
		switch rec.Type {
		case models.ChangeAddDetail:
			if !m.capability.IsKeySupported(rec.Key) {
				continue
			}
			detail := nativeDetail{
				id:    m.nextDetailID,
				key:   rec.Key,
				value: rec.Value(),
				flags: rec.Flags,
			}
			m.nextDetailID++
			contact.details = append(contact.details, detail)

			ack := rec.CopyWithType(models.ChangeUpdateNativeDetailID)
			ack.NativeContactID = contact.id
			ack.NativeDetailID = detail.id
			feedback = append(feedback, ack)

		case models.ChangeUpdateDetail:
			for i := range contact.details {
				if contact.details[i].id == rec.NativeDetailID {
					contact.details[i].value = rec.Value()
					contact.details[i].flags = rec.Flags
					break
				}
			}

		case models.ChangeDeleteDetail:
			for i := range contact.details {
				if contact.details[i].id == rec.NativeDetailID {
					contact.details = append(contact.details[:i], contact.details[i+1:]...)
					break
				}
			}
		}
	}

	m.mu.Unlock()
	m.notify()
	return feedback, nil
}

func (m *memoryAccessor) RemoveContact(id int64) error {
	m.mu.Lock()
	if _, ok := m.contacts[id]; !ok {
		m.mu.Unlock()
		return ErrContactNotFound
	}
	delete(m.contacts, id)
	m.mu.Unlock()

	m.notify()
	return nil
}
