package engine

import (
	"sort"

	"github.com/nowpeople/contact-sync/models"
)

// CapabilityFilter is the platform seam the diff depends on. The native
// accessor satisfies it; tests substitute fixed filters.
type CapabilityFilter interface {
	IsKeySupported(key models.DetailKey) bool
	PreserveOrganizationOnTitleDelete() bool
}

// ComputeDelta returns the minimal ChangeRecord set that transforms the
// master change-set of one contact into the new change-set, or nil when
// the two sets already agree.
//
// Both inputs must describe the same single contact. Records are ordered
// by (key, native detail id) — records without a detail-level id fall back
// to the contact-level id, so single-instance details still pair up — and
// walked in lock-step:
//
//   - master-only records become ChangeDeleteDetail, provided the detail
//     is not already deleted, carries a valid native detail id and its key
//     is supported by the target platform;
//   - pairs whose value or flags differ become ChangeUpdateDetail,
//     carrying over the master's internal and backend identifiers;
//   - new-only records become ChangeAddDetail under the master contact's
//     internal id.
//
// A master whose first record is ChangeDeleteContact short-circuits to
// nil: a contact scheduled for deletion is never diffed further.
//
// The organization/title fallback: on platforms where the title lives
// inside the organization physical field, deleting the title while
// organization text remains is emitted as ChangeUpdateDetail re-asserting
// the organization record instead of a title delete.
func ComputeDelta(masterChanges, newChanges []models.ChangeRecord, caps CapabilityFilter) []models.ChangeRecord {
	master := sortedByKeyAndNativeID(masterChanges)
	updated := sortedByKeyAndNativeID(newChanges)

	if len(master) > 0 && master[0].Type == models.ChangeDeleteContact {
		return nil
	}

	masterContactID := models.InvalidID
	if len(master) > 0 {
		masterContactID = master[0].InternalContactID
	}

	var delta []models.ChangeRecord
	i, j := 0, 0
	for i < len(master) || j < len(updated) {
		switch {
		case j >= len(updated) || (i < len(master) && recordLess(master[i], updated[j])):
			if rec, ok := deleteRecord(master, i, caps); ok {
				delta = append(delta, rec)
			}
			i++

		case i >= len(master) || (j < len(updated) && recordLess(updated[j], master[i])):
			rec := updated[j].CopyWithType(models.ChangeAddDetail)
			rec.InternalContactID = masterContactID
			delta = append(delta, rec)
			j++

		default: // same (key, native detail id)
			if master[i].Flags != updated[j].Flags || master[i].Value() != updated[j].Value() {
				rec := updated[j].CopyWithType(models.ChangeUpdateDetail)
				rec.InternalContactID = master[i].InternalContactID
				rec.InternalDetailID = master[i].InternalDetailID
				rec.BackendContactID = master[i].BackendContactID
				rec.BackendDetailID = master[i].BackendDetailID
				delta = append(delta, rec)
			}
			i++
			j++
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// deleteRecord builds the emission for a master-only record, applying the
// capability filter and the organization/title fallback. ok is false when
// nothing should be emitted.
func deleteRecord(master []models.ChangeRecord, i int, caps CapabilityFilter) (models.ChangeRecord, bool) {
	rec := master[i]

	if rec.Type == models.ChangeDeleteDetail {
		return models.ChangeRecord{}, false // already marked deleted
	}
	if rec.NativeDetailID == models.InvalidID {
		return models.ChangeRecord{}, false
	}
	if !caps.IsKeySupported(rec.Key) {
		return models.ChangeRecord{}, false
	}

	if rec.Key == models.KeyTitle && caps.PreserveOrganizationOnTitleDelete() {
		if org, ok := findKey(master, models.KeyOrganization); ok && org.Value() != "" {
			return org.CopyWithType(models.ChangeUpdateDetail), true
		}
	}

	return rec.CopyWithType(models.ChangeDeleteDetail), true
}

func findKey(records []models.ChangeRecord, key models.DetailKey) (models.ChangeRecord, bool) {
	for _, rec := range records {
		if rec.Key == key {
			return rec, true
		}
	}
	return models.ChangeRecord{}, false
}

func recordLess(a, b models.ChangeRecord) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.OrderedNativeDetailID() < b.OrderedNativeDetailID()
}

func sortedByKeyAndNativeID(records []models.ChangeRecord) []models.ChangeRecord {
	out := make([]models.ChangeRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return recordLess(out[i], out[j]) })
	return out
}
