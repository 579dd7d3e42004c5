package filesystem

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// DefaultPoolSize is the number of SFTP clients opened per connection.
const DefaultPoolSize = 2

// ErrPoolClosed is returned by Acquire once the pool has been closed.
var ErrPoolClosed = errors.New("pool is closed")

// ClientFactory opens a new SFTP client.
type ClientFactory func() (*sftp.Client, error)

// SFTPClientPool manages a fixed set of SFTP clients.
// It uses a channel-based semaphore pattern for thread-safe concurrent access.
type SFTPClientPool struct {
	clients chan *sftp.Client // idle clients
	size    int               // clients owned by the pool
	mu      sync.Mutex        // protects closed flag and sends on clients
	closed  bool
}

// NewSFTPClientPool creates a pool and opens size clients up front.
func NewSFTPClientPool(newClient ClientFactory, size int) (*SFTPClientPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be greater than 0, got %d", size) //nolint:err113 // Validation error with actual value
	}

	pool := &SFTPClientPool{
		clients: make(chan *sftp.Client, size),
		size:    size,
	}

	for i := range size {
		client, err := newClient()
		if err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("failed to create client %d/%d: %w", i+1, size, err)
		}

		pool.clients <- client
	}

	return pool, nil
}

// SSHClientFactory opens SFTP sessions over an established SSH connection.
func SSHClientFactory(sshClient *ssh.Client) ClientFactory {
	return func() (*sftp.Client, error) {
		return sftp.NewClient(sshClient) //nolint:wrapcheck // Wrapped by NewSFTPClientPool
	}
}

// Acquire retrieves an SFTP client from the pool.
// Blocks until a client is available if all clients are currently in use.
// Returns ErrPoolClosed if the pool is closed, including while waiting.
func (p *SFTPClientPool) Acquire() (*sftp.Client, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	client, ok := <-p.clients
	if !ok {
		return nil, ErrPoolClosed
	}

	return client, nil
}

// Close closes the pool and all idle clients.
// Clients still out are closed when they are released.
// Close is idempotent.
func (p *SFTPClientPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.clients)
	p.mu.Unlock()

	var result *multierror.Error
	for client := range p.clients {
		if err := client.Close(); err != nil { //nolint:noinlineerr // Inline error check is idiomatic for cleanup operations
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Idle returns the number of clients waiting in the pool.
func (p *SFTPClientPool) Idle() int {
	return len(p.clients)
}

// Release returns an SFTP client to the pool.
// If the pool is closed, the client is closed instead.
// Handles nil clients gracefully by returning immediately.
func (p *SFTPClientPool) Release(client *sftp.Client) {
	if client == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = client.Close()
		return
	}

	select {
	case p.clients <- client:
	default:
		// More releases than acquires; drop the extra client.
		_ = client.Close()
	}
}

// Size returns the number of clients the pool was created with.
func (p *SFTPClientPool) Size() int {
	return p.size
}
