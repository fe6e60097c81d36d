package input

import (
	"strings"
)

// ParseVK converts a key token (e.g. "F3", "R", "7", "SPACE") into a Windows
// virtual-key code. ok is false for unknown tokens.
func ParseVK(key string) (vk uint16, ok bool) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if len(k) >= 2 && len(k) <= 3 && k[0] == 'F' {
		n := 0
		for _, c := range k[1:] {
			if c < '0' || c > '9' {
				n = -1
				break
			}
			n = n*10 + int(c-'0')
		}
		if n >= 1 && n <= 24 {
			return uint16(0x70 + n - 1), true // VK_F1=0x70
		}
	}
	if len(k) == 1 {
		c := k[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return uint16(c), true // ASCII matches VK codes
		}
	}
	switch k {
	case "SPACE":
		return 0x20, true
	case "TAB":
		return 0x09, true
	case "SHIFT":
		return 0x10, true
	case "CTRL", "CONTROL":
		return 0x11, true
	case "ALT":
		return 0x12, true
	case "CAPSLOCK":
		return 0x14, true
	case "MOUSE4", "XBUTTON1":
		return 0x05, true
	case "MOUSE5", "XBUTTON2":
		return 0x06, true
	}
	return 0, false
}
