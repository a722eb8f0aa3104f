package credentials

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// FileStore keeps the session in a single file sealed with NaCl secretbox.
// The file layout is salt | nonce | box; the key is derived from the passphrase
// and the salt with scrypt. Writes replace the file with a rename so readers see
// either the old or the new session.
type FileStore struct {
	path       string
	passphrase []byte
	mu         sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, consoleerrors.ErrNoPassphrase
	}
	if path == "" {
		return nil, fmt.Errorf("[credentials NewFileStore] path is required")
	}
	return &FileStore{path: path, passphrase: []byte(passphrase)}, nil
}

// Path returns the file the store writes to.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Read(_ context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("[FileStore Read] %w", err)
	}
	if len(data) < saltLength+nonceLength+secretbox.Overhead {
		return Session{}, consoleerrors.ErrCredentialsCorrupt
	}

	var nonce [nonceLength]byte
	salt := data[:saltLength]
	copy(nonce[:], data[saltLength:saltLength+nonceLength])

	key, err := f.deriveKey(salt)
	if err != nil {
		return Session{}, err
	}
	plain, ok := secretbox.Open(nil, data[saltLength+nonceLength:], &nonce, key)
	if !ok {
		return Session{}, consoleerrors.ErrCredentialsCorrupt
	}

	var session Session
	if err := json.Unmarshal(plain, &session); err != nil {
		return Session{}, consoleerrors.Wrapf(consoleerrors.ErrCredentialsCorrupt, "[FileStore Read] %v", err)
	}
	return session, nil
}

func (f *FileStore) Write(_ context.Context, session Session) error {
	plain, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[FileStore Write] marshal: %w", err)
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("[FileStore Write] salt: %w", err)
	}
	var nonce [nonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("[FileStore Write] nonce: %w", err)
	}
	key, err := f.deriveKey(salt)
	if err != nil {
		return err
	}

	out := make([]byte, 0, saltLength+nonceLength+len(plain)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, key)

	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFileAtomic(f.path, out)
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[FileStore Clear] %w", err)
	}
	return nil
}

func (f *FileStore) deriveKey(salt []byte) (*[keyLength]byte, error) {
	derived, err := scrypt.Key(f.passphrase, salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("[FileStore deriveKey] %w", err)
	}
	var key [keyLength]byte
	copy(key[:], derived)
	return &key, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[credentials writeFileAtomic] mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("[credentials writeFileAtomic] create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[credentials writeFileAtomic] write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[credentials writeFileAtomic] chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[credentials writeFileAtomic] close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("[credentials writeFileAtomic] rename: %w", err)
	}
	return nil
}
