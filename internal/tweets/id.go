package tweets

import "regexp"

var statusPattern = regexp.MustCompile(`status/(\d+)`)

// ExtractID returns the digit run following the first "status/" segment of
// rawURL. A URL without that segment is reported with ok=false.
func ExtractID(rawURL string) (id string, ok bool) {
	match := statusPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}
