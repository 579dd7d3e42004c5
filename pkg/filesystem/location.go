package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	sftpScheme      = "sftp://"
	defaultSFTPPort = 22
)

var (
	errMissingUser = errors.New("SFTP URL must include username (sftp://user@host/path)")
	errMissingHost = errors.New("SFTP URL must include host")
)

// Location is either a local directory path or a directory on an SFTP server.
type Location struct {
	Remote bool

	// Path is the directory to scan, local or on the server.
	Path string

	// For SFTP locations
	Host string
	Port int
	User string
}

// String returns the location in the form it was given on the command line.
func (l Location) String() string {
	if !l.Remote {
		return l.Path
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", l.User, l.Host, l.Port, l.Path)
}

// ParseLocation detects whether s is a local path or an SFTP URL.
// SFTP URLs have the format: sftp://user@host[:port]/path
//   - sftp://joe@myserver.com/data   → "data", relative to the home directory
//   - sftp://joe@myserver.com//srv   → "/srv", absolute
//   - sftp://joe@myserver.com        → ".", the home directory
func ParseLocation(s string) (Location, error) {
	if !strings.HasPrefix(s, sftpScheme) {
		return Location{Path: s}, nil
	}

	u, err := url.Parse(s) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return Location{}, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return Location{}, errMissingUser
	}

	host := u.Hostname()
	if host == "" {
		return Location{}, errMissingHost
	}

	port := defaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return Location{}, fmt.Errorf("invalid port number: %w", err)
		}
	}

	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return Location{
		Remote: true,
		Path:   remotePath,
		Host:   host,
		Port:   port,
		User:   u.User.Username(),
	}, nil
}
