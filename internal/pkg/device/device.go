// Package device builds the human readable "host (OS)" labels shown next to
// uploaded files.
package device

import (
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
)

// FromRequest describes the client that sent r. X-Forwarded-For is honoured
// only when trustProxy is set.
func FromRequest(r *http.Request, trustProxy bool) string {
	host := ClientHost(r, trustProxy)
	if host == "" {
		return Server()
	}
	return host + " (" + OSFromUserAgent(r.UserAgent()) + ")"
}

func ClientHost(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// OSFromUserAgent maps a User-Agent to a coarse OS family.
func OSFromUserAgent(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case ua == "":
		return "Unknown"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ios"):
		return "iOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"), strings.Contains(ua, "darwin"):
		return "macOS"
	case strings.Contains(ua, "cros"):
		return "ChromeOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return "Unknown"
	}
}

// Server describes the machine running the process, e.g. "nas (Linux 6.1.0)".
func Server() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	return hostname + " (" + serverOS() + ")"
}

func serverOS() string {
	var name string
	switch runtime.GOOS {
	case "windows":
		name = "Windows"
	case "darwin":
		name = "macOS"
	default:
		name = "Linux"
	}
	if release := osRelease(); release != "" {
		return name + " " + release
	}
	return name
}

func osRelease() string {
	b, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
