// Package lockfile discovers the running League client through the lockfile
// it writes on startup.
package lockfile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"lol-runesync/internal/config"
	"lol-runesync/internal/constants"
)

var (
	ErrUnsupportedPlatform = errors.New("platform not supported")
	ErrLockfileNotFound    = errors.New("lockfile not found")
	ErrMalformedLockfile   = errors.New("malformed lockfile")
)

const fieldCount = 5

// DiscoveryError reports why the client could not be located. It always
// wraps one of the package sentinels.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	if e.Path == "" {
		return "lockfile discovery: " + e.Err.Error()
	}
	return fmt.Sprintf("lockfile discovery %s: %s", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Info is the parsed content of the lockfile:
// <process>:<pid>:<port>:<password>:<protocol>
type Info struct {
	ProcessName string
	PID         int
	Port        int
	Password    string
	Protocol    string
}

// AuthToken is the HTTP Basic credential for the local API.
func (i Info) AuthToken() string {
	return base64.StdEncoding.EncodeToString([]byte(constants.LockfileUser + ":" + i.Password))
}

// Parse parses a single lockfile line.
func Parse(line string) (*Info, error) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLockfile, fieldCount, len(fields))
	}

	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pid %q", ErrMalformedLockfile, fields[1])
	}
	port, err := strconv.Atoi(fields[2])
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %q", ErrMalformedLockfile, fields[2])
	}

	return &Info{
		ProcessName: fields[0],
		PID:         pid,
		Port:        port,
		Password:    fields[3],
		Protocol:    fields[4],
	}, nil
}

// Read loads and parses the lockfile at path.
func Read(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DiscoveryError{Path: path, Err: fmt.Errorf("%w: %v", ErrLockfileNotFound, err)}
	}
	info, err := Parse(string(data))
	if err != nil {
		return nil, &DiscoveryError{Path: path, Err: err}
	}
	return info, nil
}

// DefaultPath returns where the client writes its lockfile on goos.
func DefaultPath(goos string) (string, error) {
	switch goos {
	case "windows":
		return `C:\Riot Games\League of Legends\lockfile`, nil
	case "darwin":
		return "/Applications/League of Legends.app/Contents/LoL/lockfile", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// Locator finds the lockfile of the local client. It does not retry; the
// poller calls it again on its next tick.
type Locator struct {
	goos     string
	override string
}

func NewLocator(cfg *config.Config) *Locator {
	return NewLocatorFor(runtime.GOOS, cfg.LockfilePath)
}

// NewLocatorFor builds a locator for an explicit platform.
func NewLocatorFor(goos, override string) *Locator {
	return &Locator{goos: goos, override: override}
}

func (l *Locator) Locate() (*Info, error) {
	path, err := DefaultPath(l.goos)
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}
	if l.override != "" {
		path = l.override
	}
	return Read(path)
}
