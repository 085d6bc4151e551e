package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// NameSuffix is the top-level label every RNS name carries.
const NameSuffix = ".rsk"

var labelPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// Name is a validated, lower-cased RNS name such as "alice.rsk".
type Name string

// ParseName normalises s and checks the label format.
func ParseName(s string) (Name, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(n, NameSuffix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	label := strings.TrimSuffix(n, NameSuffix)
	if !labelPattern.MatchString(label) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return Name(n), nil
}

// Label returns the name without its suffix.
func (n Name) Label() string { return strings.TrimSuffix(string(n), NameSuffix) }

func (n Name) String() string { return string(n) }
