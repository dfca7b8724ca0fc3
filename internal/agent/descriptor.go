package agent

// Descriptor is the stateless description of a provider: its binary, the
// host credential files it needs inside a sandbox, and the env var names it
// forwards. Looked up by provider id; each provider owns its policy as data
// plus the small derivation functions in creds.go.
type Descriptor struct {
	// Binary is the executable name looked up on PATH.
	Binary string

	// MinVersion is the minimum supported CLI version ("v1.2.3" or
	// "1.2.3"). Empty disables the version gate.
	MinVersion string

	// Credentials lists host credential files or directories exposed to
	// the provider. Paths are relative to the user's home directory.
	Credentials []CredentialFile

	// EnvPrefixes lists env var name prefixes forwarded verbatim.
	EnvPrefixes []string

	// EnvVars lists exact env var names forwarded verbatim.
	EnvVars []string
}

// CredentialFile describes one host credential file or directory.
type CredentialFile struct {
	// Path is relative to the user's home directory, e.g. ".claude.json".
	Path string

	// Description names the credential for error messages.
	Description string

	// Required makes a missing file a hard resolution error.
	Required bool

	// ReadWrite mounts the credential writable. Only set for providers
	// that must self-erase temporary credentials after use; everything
	// else is mounted read-only.
	ReadWrite bool
}
