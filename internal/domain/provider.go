package domain

import "fmt"

// Provider identifies a third-party OAuth provider
type Provider string

const (
	ProviderGmail           Provider = "gmail"
	ProviderGoogleWorkspace Provider = "google_workspace"
	ProviderLinkedIn        Provider = "linkedin"
)

// Providers lists every supported provider
var Providers = []Provider{ProviderGmail, ProviderGoogleWorkspace, ProviderLinkedIn}

// ParseProvider converts a string into a known Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGmail, ProviderGoogleWorkspace, ProviderLinkedIn:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider: %q", s)
}

// String implements fmt.Stringer
func (p Provider) String() string {
	return string(p)
}
