package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

func codeOf(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.ToDomainError(err).Code
}

func identity(role domain.Role) *auth.Identity {
	return &auth.Identity{SubjectID: uuid.NewString(), Role: role}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeAttemptStore struct {
	counts map[string]int64
	err    error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{counts: map[string]int64{}}
}

func (s *fakeAttemptStore) Count(_ context.Context, email string) (int64, time.Duration, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.counts[email], 10 * time.Minute, nil
}

func (s *fakeAttemptStore) Increment(_ context.Context, email string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[email]++
	return s.counts[email], nil
}

func (s *fakeAttemptStore) Reset(_ context.Context, email string) error {
	delete(s.counts, email)
	return nil
}

type fakeTemplateRepo struct {
	templates map[string]*domain.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[string]*domain.Template{}}
}

func (r *fakeTemplateRepo) Create(_ context.Context, tpl *domain.Template) error {
	for _, t := range r.templates {
		if t.Name == tpl.Name {
			return repository.ErrDuplicate
		}
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	cp := *tpl
	r.templates[tpl.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, tpl *domain.Template) error {
	if _, ok := r.templates[tpl.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *tpl
	r.templates[tpl.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.templates[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id string) (*domain.Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTemplateRepo) List(_ context.Context) ([]domain.Template, error) {
	out := make([]domain.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, *t)
	}
	return out, nil
}

type fakeDocumentRepo struct {
	docs       map[string]*domain.Document
	lastFilter repository.DocumentFilter
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]*domain.Document{}}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	doc.ID = uuid.NewString()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *domain.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) List(_ context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	r.lastFilter = filter
	var out []domain.Document
	for _, d := range r.docs {
		if filter.OwnerID != nil && d.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

type fakeFieldRepo struct {
	docs   *fakeDocumentRepo
	values map[string][]domain.FieldValue
	err    error
}

func (r *fakeFieldRepo) ListByDocument(_ context.Context, documentID string) ([]domain.FieldValue, error) {
	return r.values[documentID], nil
}

func (r *fakeFieldRepo) Replace(_ context.Context, documentID string, values []domain.FieldValue) error {
	if r.err != nil {
		return r.err
	}
	doc, ok := r.docs.docs[documentID]
	if !ok {
		return pgx.ErrNoRows
	}
	doc.Status = domain.DocumentStatusProcessed
	r.values[documentID] = values
	return nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")
