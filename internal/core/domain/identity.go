package domain

import "strings"

// The reserved administrative username. The lowercase form is the registry
// key; claiming it requires the out-of-band passphrase and its display form
// is always canonicalized.
const (
	AdminKey         = "tourist"
	AdminDisplayName = "Tourist"
	AdminPassphrase  = "I am tourist"
)

// AnonymousName is the placeholder display name for identities that never
// claimed a username. It is excluded from the leaderboard.
const AnonymousName = "Anonymous"

// Identity is the voting and authorship principal of a session. A device
// always has exactly one live Identity: Guest (Username empty) or Named.
type Identity struct {
	DeviceID string
	Username string
}

func Guest(deviceID string) Identity {
	return Identity{DeviceID: deviceID}
}

func Named(deviceID, username string) Identity {
	return Identity{DeviceID: deviceID, Username: username}
}

func (i Identity) IsNamed() bool {
	return i.Username != ""
}

func (i Identity) IsAdmin() bool {
	return NormalizeUsername(i.Username) == AdminKey
}

// DisplayName is the name shown on submissions and comments.
func (i Identity) DisplayName() string {
	if i.Username == "" {
		return AnonymousName
	}
	return i.Username
}

// RegistryKey is the lowercase key the identity's registry entry lives under.
// Empty for guests.
func (i Identity) RegistryKey() string {
	return NormalizeUsername(i.Username)
}

// NormalizeUsername lowercases and trims a candidate name for registry
// lookups. Case as typed is preserved elsewhere for display.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalDisplayName keeps the name as typed, except the reserved admin
// name which always displays in its fixed form.
func CanonicalDisplayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if NormalizeUsername(trimmed) == AdminKey {
		return AdminDisplayName
	}
	return trimmed
}
