package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mount is one credential path exposed inside a task's sandbox. Source is
// the host path, Target the fixed in-sandbox path.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// ResolveMounts derives the credential mounts for a provider from its
// descriptor. home is the host home directory; inside the sandbox the same
// relative layout is reproduced under /root. A required credential that is
// missing on the host is a hard error naming the credential.
func ResolveMounts(desc Descriptor, home string) ([]Mount, error) {
	var mounts []Mount
	for _, cred := range desc.Credentials {
		source := filepath.Join(home, cred.Path)
		if _, err := os.Stat(source); err != nil {
			if cred.Required {
				return nil, fmt.Errorf("agent %s: missing credential %s (%s)",
					desc.Binary, source, cred.Description)
			}
			continue
		}
		mounts = append(mounts, Mount{
			Source:   source,
			Target:   filepath.Join("/root", cred.Path),
			ReadOnly: !cred.ReadWrite,
		})
	}
	return mounts, nil
}

// ForwardEnv filters environ (KEY=VALUE form) down to the variables the
// descriptor allows, by exact name or prefix.
func ForwardEnv(desc Descriptor, environ []string) []string {
	var forwarded []string
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if envAllowed(desc, name) {
			forwarded = append(forwarded, kv)
		}
	}
	return forwarded
}

// EnvNames filters environ down to just the allow-listed variable names.
func EnvNames(desc Descriptor, environ []string) []string {
	var names []string
	for _, kv := range ForwardEnv(desc, environ) {
		name, _, _ := strings.Cut(kv, "=")
		names = append(names, name)
	}
	return names
}

func envAllowed(desc Descriptor, name string) bool {
	for _, exact := range desc.EnvVars {
		if name == exact {
			return true
		}
	}
	for _, prefix := range desc.EnvPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
