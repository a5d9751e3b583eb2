package engine

import "strings"

// lastUserLine extracts the content of the last USER line from a rendered
// prompt, so the loopback reply tracks the conversation like a real engine
// would.
func lastUserLine(prompt string) string {
	last := ""
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "USER: "); ok {
			last = rest
		}
	}
	return last
}
