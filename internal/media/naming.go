package media

import (
	"fmt"
	"regexp"
	"strings"
)

var trailingNumberRe = regexp.MustCompile(`-\d+$`)

// StripTrailingNumber removes a trailing "-<digits>" suffix from a filename
// base. CDN variant ids like "bob-noir-2" carry no meaning for naming.
func StripTrailingNumber(base string) string {
	return trailingNumberRe.ReplaceAllString(base, "")
}

// NameAllocator hands out collision-free filenames within one directory.
// Reservations are case-insensitive so the output stays safe on
// case-preserving filesystems.
type NameAllocator struct {
	used map[string]bool
}

// NewNameAllocator creates an empty allocator.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{used: make(map[string]bool)}
}

// Reserve returns base+ext, or on collision tries single-letter suffixes
// "-a".."-z", then "-aa".."-zz", then "-x1", "-x2", ... counting upward.
func (a *NameAllocator) Reserve(base, ext string) string {
	if name := a.tryReserve(base + ext); name != "" {
		return name
	}
	for c := 'a'; c <= 'z'; c++ {
		if name := a.tryReserve(fmt.Sprintf("%s-%c%s", base, c, ext)); name != "" {
			return name
		}
	}
	for c1 := 'a'; c1 <= 'z'; c1++ {
		for c2 := 'a'; c2 <= 'z'; c2++ {
			if name := a.tryReserve(fmt.Sprintf("%s-%c%c%s", base, c1, c2, ext)); name != "" {
				return name
			}
		}
	}
	for i := 1; ; i++ {
		if name := a.tryReserve(fmt.Sprintf("%s-x%d%s", base, i, ext)); name != "" {
			return name
		}
	}
}

func (a *NameAllocator) tryReserve(candidate string) string {
	key := strings.ToLower(candidate)
	if a.used[key] {
		return ""
	}
	a.used[key] = true
	return candidate
}
