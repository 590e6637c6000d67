package native

import (
	"errors"

	"github.com/nowpeople/contact-sync/internal/logger"
)

// ErrUnknownPlatform is returned when the configured platform profile does
// not name a known capability set.
var ErrUnknownPlatform = errors.New("unknown native platform profile")

// NewAccessor builds the device accessor for the given platform version.
// Selection happens here, once, at construction; callers never branch on
// the platform again.
func NewAccessor(version PlatformVersion, log *logger.Logger) (Accessor, error) {
	switch version {
	case PlatformLegacy:
		return newMemoryAccessor(legacyCapability(), log), nil
	case PlatformModern:
		return newMemoryAccessor(modernCapability(), log), nil
	default:
		return nil, ErrUnknownPlatform
	}
}
