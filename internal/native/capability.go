package native

import (
	"strings"

	"github.com/nowpeople/contact-sync/models"
)

// PlatformVersion selects the address-book capability profile at
// construction time. It is never inferred at runtime.
type PlatformVersion int

const (
	PlatformUnknown PlatformVersion = iota
	PlatformLegacy
	PlatformModern
)

// PlatformFromString parses the configuration value.
func PlatformFromString(s string) PlatformVersion {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy":
		return PlatformLegacy
	case "modern":
		return PlatformModern
	default:
		return PlatformUnknown
	}
}

// Capability describes what one platform generation can store and how it
// treats the organization/title composite.
type Capability struct {
	Version PlatformVersion

	supportedKeys map[models.DetailKey]bool

	// orgTitleFallback: deleting a title while department text remains is
	// expressed as an update that preserves the residue. The two platform
	// generations disagree here; both behaviors are kept behind this flag.
	orgTitleFallback bool
}

// IsKeySupported reports whether the profile can store the detail kind.
func (c Capability) IsKeySupported(key models.DetailKey) bool {
	return c.supportedKeys[key]
}

// PreserveOrganizationOnTitleDelete reports the org/title delete fallback.
func (c Capability) PreserveOrganizationOnTitleDelete() bool {
	return c.orgTitleFallback
}

// legacyCapability is the older platform generation: a reduced key set and
// the update-preserving organization fallback.
func legacyCapability() Capability {
	return Capability{
		Version: PlatformLegacy,
		supportedKeys: keySet(
			models.KeyName,
			models.KeyNickname,
			models.KeyPhone,
			models.KeyEmail,
			models.KeyAddress,
			models.KeyURL,
			models.KeyNote,
			models.KeyOrganization,
			models.KeyTitle,
			models.KeyDate,
			models.KeyPhoto,
		),
		orgTitleFallback: true,
	}
}

// modernCapability is the current platform generation: the full key set
// and plain detail deletes for titles.
func modernCapability() Capability {
	return Capability{
		Version: PlatformModern,
		supportedKeys: keySet(
			models.KeyName,
			models.KeyNickname,
			models.KeyPhone,
			models.KeyEmail,
			models.KeyAddress,
			models.KeyURL,
			models.KeyInternetAddress,
			models.KeyIMAddress,
			models.KeyNote,
			models.KeyOrganization,
			models.KeyTitle,
			models.KeyRole,
			models.KeyDate,
			models.KeyPhoto,
			models.KeyRelation,
			models.KeyBusiness,
		),
		orgTitleFallback: false,
	}
}

func keySet(keys ...models.DetailKey) map[models.DetailKey]bool {
	m := make(map[models.DetailKey]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// CompositeField maps one logical detail key onto the physical sub-fields
// a platform stores it as, with the transforms between the two shapes.
// The organization detail is the only composite today: its logical value
// is "company;department" while legacy devices store company and
// department in separate physical fields.
type CompositeField struct {
	Logical  models.DetailKey
	Physical []models.DetailKey
}

// Split breaks a logical value into its physical sub-values. Missing
// trailing parts come back empty.
func (f CompositeField) Split(value string) []string {
	parts := strings.SplitN(value, ";", len(f.Physical))
	out := make([]string, len(f.Physical))
	copy(out, parts)
	return out
}

// Merge joins physical sub-values back into the logical value, dropping a
// trailing empty part.
func (f CompositeField) Merge(parts []string) string {
	joined := strings.Join(parts, ";")
	return strings.TrimRight(joined, ";")
}

// OrganizationField is the composite descriptor for organization/title.
var OrganizationField = CompositeField{
	Logical:  models.KeyOrganization,
	Physical: []models.DetailKey{models.KeyOrganization, models.KeyTitle},
}
