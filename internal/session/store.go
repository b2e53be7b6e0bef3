// Package session holds the authoritative upload state for one user: the
// ordered file list, the current file, the last error, the busy flag and the
// latest conversion result.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/models"
)

// State is the coarse state of an upload session.
type State string

const (
	StateEmpty State = "empty"
	StateReady State = "ready"
	StateBusy  State = "busy"
)

var (
	ErrBusy            = errors.New("a conversion is already in progress")
	ErrEmpty           = errors.New("no files selected")
	ErrNotBusy         = errors.New("no conversion in progress")
	ErrIndexOutOfRange = errors.New("file index out of range")
)

// Store owns an upload session. Every mutation goes through one of its
// transitions and is applied atomically under mu.
type Store struct {
	mu        sync.Mutex
	validator *intake.Validator
	encoder   *intake.Encoder
	logger    *slog.Logger

	files   []models.UploadedFile
	encoded []string // aligned with files
	current int      // index into files, -1 when none
	err     string
	busy    bool
	result  *models.ConversionResult
}

// NewStore creates an empty session store.
func NewStore(cfg intake.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		validator: intake.NewValidator(cfg),
		encoder:   intake.NewEncoder(cfg),
		logger:    logger,
		current:   -1,
	}
}

// AddFiles validates and encodes candidates, then appends them in order.
// One invalid or unreadable candidate rejects the whole batch and leaves the
// file list untouched.
func (s *Store) AddFiles(ctx context.Context, candidates []intake.Candidate) error {
	encoded, err := s.admit(ctx, candidates)
	if err != nil || len(encoded) == 0 {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	for _, e := range encoded {
		s.files = append(s.files, e.File)
		s.encoded = append(s.encoded, e.Base64)
	}
	s.current = len(s.files) - 1
	s.err = ""
	s.result = nil
	s.logger.Debug("files added", "added", len(encoded), "total", len(s.files))
	return nil
}

// ReplaceFile validates and encodes c and makes it the only file.
func (s *Store) ReplaceFile(ctx context.Context, c intake.Candidate) error {
	encoded, err := s.admit(ctx, []intake.Candidate{c})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.files = []models.UploadedFile{encoded[0].File}
	s.encoded = []string{encoded[0].Base64}
	s.current = 0
	s.err = ""
	s.result = nil
	return nil
}

// admit runs validation then encoding outside the lock. Failures are
// recorded as the session error.
func (s *Store) admit(ctx context.Context, candidates []intake.Candidate) ([]models.EncodedFile, error) {
	s.mu.Lock()
	busy := s.busy
	s.mu.Unlock()
	if busy {
		return nil, ErrBusy
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if err := s.validator.ValidateAll(candidates); err != nil {
		s.fail(err)
		return nil, err
	}

	encoded, err := s.encoder.EncodeAll(ctx, candidates)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	return encoded, nil
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err.Error()
	s.logger.Debug("selection rejected", "error", err)
}

// RemoveFile deletes the file at index. If it was the current file, the new
// last file becomes current.
func (s *Store) RemoveFile(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if index < 0 || index >= len(s.files) {
		return ErrIndexOutOfRange
	}

	s.files = append(s.files[:index:index], s.files[index+1:]...)
	s.encoded = append(s.encoded[:index:index], s.encoded[index+1:]...)

	switch {
	case len(s.files) == 0:
		s.current = -1
	case index == s.current:
		s.current = len(s.files) - 1
	case index < s.current:
		s.current--
	}
	return nil
}

// ClearAll resets the session to empty: files, error and result. The busy
// flag is kept.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.encoded = nil
	s.current = -1
	s.err = ""
	s.result = nil
}

// ClearError is the "try again" action: it drops the error and any failed
// result while keeping the files.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	if s.result != nil && !s.result.Success {
		s.result = nil
	}
}

// ReportError records an error raised outside validation, e.g. a selection
// that could not be opened.
func (s *Store) ReportError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = message
}

// BeginSubmit marks the session busy and returns the files to submit.
func (s *Store) BeginSubmit() ([]models.UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, ErrBusy
	}
	if len(s.files) == 0 {
		return nil, ErrEmpty
	}
	s.busy = true
	s.result = nil
	s.err = ""

	files := make([]models.UploadedFile, len(s.files))
	copy(files, s.files)
	return files, nil
}

// CompleteSubmit stores the result of the outstanding submit and clears busy.
func (s *Store) CompleteSubmit(result models.ConversionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.busy {
		return ErrNotBusy
	}
	s.busy = false
	s.result = &result
	if !result.Success {
		s.err = result.Error
	}
	return nil
}

// State reports the coarse session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.busy:
		return StateBusy
	case len(s.files) == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// Snapshot returns a copy of the session safe to read without the lock.
func (s *Store) Snapshot() models.UploadSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.UploadSession{
		Files:        make([]models.UploadedFile, len(s.files)),
		CurrentIndex: s.current,
		Error:        s.err,
		Busy:         s.busy,
	}
	copy(snap.Files, s.files)
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// Encoded returns the base64 payloads aligned with the file list.
func (s *Store) Encoded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.encoded))
	copy(out, s.encoded)
	return out
}
