// Package materials manages a user's study files and folders. Files carry
// plain-text content that practice quizzes are generated from.
package materials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/timer"
)

// MaxFileBytes caps the size of an imported file.
const MaxFileBytes = 1 << 20

// DefaultSubject is used when a file is added without a subject.
const DefaultSubject = "General"

var (
	ErrUnsupportedType = errors.New("only plain text and markdown files are supported")
	ErrTooLarge        = errors.New("file is larger than 1 MiB")
	ErrNotText         = errors.New("file is not valid UTF-8 text")
	ErrFolderNotFound  = errors.New("folder not found")
	ErrNotFound        = errors.New("material not found")
	ErrEmptyName       = errors.New("name is required")
)

var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// File is a study file.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	FolderID  string    `json:"folderId,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Material returns the timer's view of the file.
func (f File) Material() timer.Material {
	return timer.Material{ID: f.ID, Name: f.Name, Subject: f.Subject}
}

// Folder groups files.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddFileInput describes a file to import from disk.
type AddFileInput struct {
	Path     string
	Name     string // defaults to the file name without extension
	Subject  string
	FolderID string
}

// Service manages materials in the store.
type Service struct {
	repo  store.MaterialRepo
	newID func() string
}

// NewService creates a service backed by repo.
func NewService(repo store.MaterialRepo) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// Files lists a user's files ordered by name.
func (s *Service) Files(ctx context.Context, userID string) ([]File, error) {
	recs, err := s.repo.ListMaterials(ctx, userID, store.KindFile)
	if err != nil {
		return nil, err
	}
	files := make([]File, len(recs))
	for i, r := range recs {
		files[i] = fileFromRecord(r)
	}
	return files, nil
}

// Folders lists a user's folders ordered by name.
func (s *Service) Folders(ctx context.Context, userID string) ([]Folder, error) {
	recs, err := s.repo.ListMaterials(ctx, userID, store.KindFolder)
	if err != nil {
		return nil, err
	}
	folders := make([]Folder, len(recs))
	for i, r := range recs {
		folders[i] = Folder{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
	}
	return folders, nil
}

// CreateFolder adds a folder.
func (s *Service) CreateFolder(ctx context.Context, userID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, ErrEmptyName
	}
	rec := store.MaterialRecord{
		ID:        s.newID(),
		UserID:    userID,
		Kind:      store.KindFolder,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateMaterial(ctx, rec); err != nil {
		return Folder{}, err
	}
	return Folder{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt}, nil
}

// AddFile imports a text or markdown file from disk.
func (s *Service) AddFile(ctx context.Context, userID string, in AddFileInput) (File, error) {
	ext := strings.ToLower(filepath.Ext(in.Path))
	if !textExtensions[ext] {
		return File{}, fmt.Errorf("%s: %w", in.Path, ErrUnsupportedType)
	}
	info, err := os.Stat(in.Path)
	if err != nil {
		return File{}, fmt.Errorf("read material: %w", err)
	}
	if info.Size() > MaxFileBytes {
		return File{}, fmt.Errorf("%s: %w", in.Path, ErrTooLarge)
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return File{}, fmt.Errorf("read material: %w", err)
	}

	name := in.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))
	}
	return s.AddText(ctx, userID, name, in.Subject, in.FolderID, data)
}

// AddText stores content directly as a file.
func (s *Service) AddText(ctx context.Context, userID, name, subject, folderID string, content []byte) (File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return File{}, ErrEmptyName
	}
	if !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
		return File{}, ErrNotText
	}
	if subject = strings.TrimSpace(subject); subject == "" {
		subject = DefaultSubject
	}
	if folderID != "" {
		if err := s.checkFolder(ctx, folderID); err != nil {
			return File{}, err
		}
	}

	rec := store.MaterialRecord{
		ID:        s.newID(),
		UserID:    userID,
		Kind:      store.KindFile,
		ParentID:  folderID,
		Name:      name,
		Subject:   subject,
		Content:   string(content),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateMaterial(ctx, rec); err != nil {
		return File{}, err
	}
	return fileFromRecord(rec), nil
}

// Get returns a file by id.
func (s *Service) Get(ctx context.Context, id string) (File, error) {
	rec, err := s.repo.GetMaterial(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && rec.Kind != store.KindFile) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, err
	}
	return fileFromRecord(*rec), nil
}

// Delete removes a file or folder.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteMaterial(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) checkFolder(ctx context.Context, id string) error {
	rec, err := s.repo.GetMaterial(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && rec.Kind != store.KindFolder) {
		return ErrFolderNotFound
	}
	return err
}

func fileFromRecord(r store.MaterialRecord) File {
	return File{
		ID:        r.ID,
		Name:      r.Name,
		Subject:   r.Subject,
		FolderID:  r.ParentID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}
