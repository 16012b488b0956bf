package config

import (
	"fmt"
	"os"
	"runtime"
)

// ClientName identifies this gateway in outbound requests.
const ClientName = "GenRelay"

// EnvVersionOverride lets deployments pin the advertised client version.
const EnvVersionOverride = "GENRELAY_VERSION"

// ClientVersion returns the version string advertised in the user agent:
// the environment override when set, otherwise the runtime's own version.
func ClientVersion() string {
	if v := os.Getenv(EnvVersionOverride); v != "" {
		return v
	}
	return runtime.Version()
}

// UserAgent composes the caller-identifying header sent with every outbound
// request: client name, version, and host platform/architecture.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s)", ClientName, ClientVersion(), runtime.GOOS, runtime.GOARCH)
}
