package award

import (
	"fmt"
	"net/url"
	"regexp"
)

// Scheme is the type of an external award identifier.
type Scheme string

// Supported identifier schemes.
const (
	SchemeURL Scheme = "url"
	SchemeDOI Scheme = "doi"
)

var doiRegex = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// IsValid checks if the scheme is one of the supported values.
func (s Scheme) IsValid() bool {
	return s == SchemeURL || s == SchemeDOI
}

// Identifier is an external identifier of an award (value object).
type Identifier struct {
	Identifier string `json:"identifier"`
	Scheme     Scheme `json:"scheme"`
}

// Validate checks the identifier value against its scheme.
func (i Identifier) Validate() error {
	if i.Identifier == "" {
		return fmt.Errorf("identifier value is required")
	}
	switch i.Scheme {
	case SchemeDOI:
		if !doiRegex.MatchString(i.Identifier) {
			return fmt.Errorf("invalid doi %q", i.Identifier)
		}
	case SchemeURL:
		u, err := url.Parse(i.Identifier)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid url %q", i.Identifier)
		}
	default:
		return fmt.Errorf("unsupported identifier scheme %q", i.Scheme)
	}
	return nil
}
