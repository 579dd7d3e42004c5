package filesystem

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

var errNoAuthMethods = errors.New("no SSH authentication methods available (tried SSH agent and default keys)")

const (
	dialAttempts   = 3
	dialMinBackoff = 200 * time.Millisecond
	dialMaxBackoff = 2 * time.Second
)

// SFTPConnection holds an active SSH connection.
type SFTPConnection struct {
	sshClient *ssh.Client
	host      string
	port      int
	user      string
}

// Connect establishes an SSH connection for SFTP sessions.
// It uses SSH agent and default SSH keys for authentication.
func Connect(host string, port int, user string) (*SFTPConnection, error) {
	authMethods, err := getSSHAuthMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to get SSH auth methods: %w", err)
	}

	if len(authMethods) == 0 {
		return nil, errNoAuthMethods
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // TODO: verify against ~/.ssh/known_hosts
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	sshClient, err := dialWithRetry(addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH connection to %s failed: %w", addr, err)
	}

	return &SFTPConnection{
		sshClient: sshClient,
		host:      host,
		port:      port,
		user:      user,
	}, nil
}

// dialWithRetry retries network-level dial failures. Handshake and auth
// failures are returned at once.
func dialWithRetry(addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	wait := &backoff.Backoff{Min: dialMinBackoff, Max: dialMaxBackoff, Jitter: true}

	for {
		client, err := ssh.Dial("tcp", addr, config)
		if err == nil {
			return client, nil
		}

		var netErr *net.OpError
		if !errors.As(err, &netErr) || netErr.Op != "dial" || wait.Attempt() >= dialAttempts-1 {
			return nil, err //nolint:wrapcheck // Wrapped by Connect with the address
		}

		time.Sleep(wait.Duration())
	}
}

// Close closes the SSH connection.
func (c *SFTPConnection) Close() error {
	if c.sshClient == nil {
		return nil
	}

	return c.sshClient.Close() //nolint:wrapcheck // Closing error is reported as-is
}

// SSHClient returns the underlying SSH client.
func (c *SFTPConnection) SSHClient() *ssh.Client {
	return c.sshClient
}

// String returns user@host:port.
func (c *SFTPConnection) String() string {
	return fmt.Sprintf("%s@%s:%d", c.user, c.host, c.port)
}

// getSSHAuthMethods returns SSH authentication methods in priority order:
// 1. SSH agent
// 2. Default SSH keys
func getSSHAuthMethods() ([]ssh.AuthMethod, error) {
	var authMethods []ssh.AuthMethod

	if agentAuth := trySSHAgent(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		if len(authMethods) > 0 {
			return authMethods, nil
		}

		return nil, fmt.Errorf("cannot locate SSH keys: %w", err)
	}

	return append(authMethods, loadKeyAuthMethods(filepath.Join(homeDir, ".ssh"))...), nil
}

// trySSHAgent attempts to connect to the SSH agent.
func trySSHAgent() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}

	agentClient := agent.NewClient(conn)
	return ssh.PublicKeysCallback(agentClient.Signers)
}

// loadKeyAuthMethods loads the unencrypted default keys found in sshDir.
func loadKeyAuthMethods(sshDir string) []ssh.AuthMethod {
	var authMethods []ssh.AuthMethod

	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyData, err := os.ReadFile(filepath.Join(sshDir, name))
		if err != nil {
			continue
		}

		// Password-protected keys are skipped.
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			continue
		}

		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	return authMethods
}
