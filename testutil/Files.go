package testutil

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

type storedFile struct {
	info storage.FileInfo
	data []byte
}

// FileStore keeps uploads in memory.
type FileStore struct {
	mu    sync.Mutex
	files map[string]storedFile
}

func NewFileStore() *FileStore {
	return &FileStore{files: map[string]storedFile{}}
}

func (s *FileStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = storedFile{
		info: storage.FileInfo{ID: id, Name: name, ContentType: contentType, Size: int64(len(data)), UploadedAt: time.Now()},
		data: data,
	}
	return id, nil
}

func (s *FileStore) Open(ctx context.Context, id string) (io.ReadCloser, storage.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, storage.FileInfo{}, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(f.data)), f.info, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return storage.ErrFileNotFound
	}
	delete(s.files, id)
	return nil
}

func (s *FileStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[id]
	return ok
}

func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer records sent mail.
type Mailer struct {
	mu   sync.Mutex
	Sent []Mail
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

// LastCode returns the most recent six digit code mailed to addr.
func (m *Mailer) LastCode(addr string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].To == addr {
			return sixDigits.FindString(m.Sent[i].Body)
		}
	}
	return ""
}
