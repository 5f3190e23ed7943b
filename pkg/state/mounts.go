// Package state detects and tears down partial installer state left by a
// failed or interrupted run: mounts under the target root, the open LUKS
// mapping, active swap. The install plan runs a teardown pass before
// partitioning so a rerun never trips over its own leftovers.
package state

import (
	"sort"
	"strconv"
	"strings"
)

// Mount is one line of /proc/self/mounts.
type Mount struct {
	Device string
	Dir    string
	FSType string
}

// ParseMounts parses /proc/self/mounts content. Malformed lines are
// skipped; octal escapes in paths (\040 for space) are decoded.
func ParseMounts(content string) []Mount {
	var mounts []Mount
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, Mount{
			Device: unescapeMountField(fields[0]),
			Dir:    unescapeMountField(fields[1]),
			FSType: fields[2],
		})
	}
	return mounts
}

// MountsBelow returns the mounts at or under root, deepest first, which
// is the order they must be unmounted in.
func MountsBelow(mounts []Mount, root string) []Mount {
	root = strings.TrimRight(root, "/")
	if root == "" {
		root = "/"
	}

	var below []Mount
	for _, m := range mounts {
		if m.Dir == root || strings.HasPrefix(m.Dir, root+"/") {
			below = append(below, m)
		}
	}
	sort.SliceStable(below, func(i, j int) bool {
		return strings.Count(below[i].Dir, "/") > strings.Count(below[j].Dir, "/")
	})
	return below
}

// unescapeMountField decodes the \ooo octal escapes the kernel uses for
// whitespace in mount paths.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
