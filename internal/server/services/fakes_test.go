package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/images"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/resumes"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/skills"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/views"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlx handle over sqlmock for the transactional paths.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// fakeManager hands out the same in-memory repositories for every handle.
type fakeManager struct {
	accounts *fakeAccounts
	images   *fakeImages
	resumes  *fakeResumes
	settings *fakeSettings
	projects *fakeProjects
	skills   *fakeSkills
	contacts *fakeContacts
	views    *fakeViews
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		accounts: &fakeAccounts{byID: map[string]*models.Account{}},
		images:   &fakeImages{byID: map[string]*models.Asset{}},
		resumes:  &fakeResumes{byID: map[string]*models.Asset{}},
		settings: &fakeSettings{docs: map[string][]byte{}},
		projects: &fakeProjects{byID: map[string]*models.Project{}},
		skills:   &fakeSkills{byID: map[string]*models.SkillCategory{}},
		contacts: &fakeContacts{byID: map[string]*models.Contact{}},
		views:    &fakeViews{},
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeManager) Accounts(dbx.DBTX) accounts.Repository       { return m.accounts }
func (m *fakeManager) Images(dbx.DBTX) images.Repository           { return m.images }
func (m *fakeManager) Resumes(dbx.DBTX) resumes.Repository         { return m.resumes }
func (m *fakeManager) Settings(dbx.DBTX) settings.Repository       { return m.settings }
func (m *fakeManager) Projects(sqlx.ExtContext) projects.Repository { return m.projects }
func (m *fakeManager) Skills(sqlx.ExtContext) skills.Repository     { return m.skills }
func (m *fakeManager) Contacts(sqlx.ExtContext) contacts.Repository { return m.contacts }
func (m *fakeManager) Views(sqlx.ExtContext) views.Repository       { return m.views }

// --- accounts ---

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[string]*models.Account
	err  error
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, x := range f.byID {
		if strings.EqualFold(x.Email, a.Email) {
			return nil, common.ErrConflict
		}
	}
	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, x := range f.byID {
		if strings.EqualFold(x.Email, email) {
			out := *x
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *x
	return &out, nil
}

// RecordFailedLogin mirrors the CASE logic of the SQL implementation.
func (f *fakeAccounts) RecordFailedLogin(_ context.Context, id string, now time.Time, maxAttempts int, lockFor time.Duration) (int, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return 0, nil, common.ErrorNotFound
	}

	if x.LockUntil != nil && !x.LockUntil.After(now) {
		x.FailedAttempts = 1
		x.LockUntil = nil
	} else {
		x.FailedAttempts++
	}
	if x.LockUntil == nil && x.FailedAttempts >= maxAttempts {
		until := now.Add(lockFor)
		x.LockUntil = &until
	}
	return x.FailedAttempts, x.LockUntil, nil
}

func (f *fakeAccounts) ResetLoginState(_ context.Context, id string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	x.FailedAttempts = 0
	x.LockUntil = nil
	x.LastLogin = &now
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id string, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	x.PasswordHash = hash
	return nil
}

func (f *fakeAccounts) UpdateEmail(_ context.Context, id string, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	for _, o := range f.byID {
		if o.ID != id && strings.EqualFold(o.Email, email) {
			return common.ErrConflict
		}
	}
	x.Email = email
	return nil
}

func (f *fakeAccounts) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeAccounts) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, x := range f.byID {
		if !x.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) Recent(_ context.Context, limit int) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Account
	for _, x := range f.byID {
		out = append(out, *x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- images ---

type fakeImages struct {
	mu   sync.Mutex
	byID map[string]*models.Asset
	seq  int
}

func (f *fakeImages) Create(_ context.Context, a *models.Asset) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *a
	cp.ID = uuid.NewString()
	cp.Kind = models.AssetImage
	cp.URL = models.AssetURL(models.AssetImage, cp.ID)
	cp.CreatedAt = time.Unix(int64(f.seq), 0)
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeImages) Get(_ context.Context, id string) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *x
	return &out, nil
}

func (f *fakeImages) filtered(filter models.AssetFilter) []models.Asset {
	var out []models.Asset
	for _, x := range f.byID {
		if filter.ActiveOnly && !x.IsActive {
			continue
		}
		if filter.ProjectID != "" && (x.ProjectID == nil || *x.ProjectID != filter.ProjectID) {
			continue
		}
		out = append(out, *x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeImages) List(_ context.Context, filter models.AssetFilter, limit, offset int) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.filtered(filter), limit, offset), nil
}

func (f *fakeImages) Count(_ context.Context, filter models.AssetFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filtered(filter))), nil
}

func (f *fakeImages) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	x.IsActive = active
	return nil
}

func (f *fakeImages) UpdateMetadata(_ context.Context, a *models.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[a.ID]
	if !ok {
		return common.ErrorNotFound
	}
	x.Filename = a.Filename
	x.ProjectID = a.ProjectID
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// --- resumes ---

type fakeResumes struct {
	mu        sync.Mutex
	byID      map[string]*models.Asset
	seq       int
	lockCalls int
}

func (f *fakeResumes) Create(_ context.Context, a *models.Asset) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *a
	cp.ID = uuid.NewString()
	cp.Kind = models.AssetResume
	cp.URL = models.AssetURL(models.AssetResume, cp.ID)
	cp.CreatedAt = time.Unix(int64(f.seq), 0)
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeResumes) Get(_ context.Context, id string) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *x
	return &out, nil
}

func (f *fakeResumes) GetActive(context.Context) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.IsActive {
			out := *x
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResumes) List(_ context.Context, limit, offset int) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Asset
	for _, x := range f.byID {
		out = append(out, *x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (f *fakeResumes) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeResumes) LockActivation(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockCalls++
	return nil
}

func (f *fakeResumes) DeactivateAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		x.IsActive = false
	}
	return nil
}

func (f *fakeResumes) Activate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	x.IsActive = true
	return nil
}

func (f *fakeResumes) DeleteInactive(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok || x.IsActive {
		return "", common.ErrorNotFound
	}
	delete(f.byID, id)
	return x.StorageKey, nil
}

// --- settings ---

type fakeSettings struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func (f *fakeSettings) Get(_ context.Context, kind string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.docs[kind]
	if !ok {
		return common.ErrorNotFound
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeSettings) EnsureDefault(_ context.Context, kind string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[kind]; ok {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.docs[kind] = data
	return nil
}

func (f *fakeSettings) Put(_ context.Context, kind string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.docs[kind] = data
	return nil
}

// --- projects ---

type fakeProjects struct {
	mu   sync.Mutex
	byID map[string]*models.Project
}

func (f *fakeProjects) add(p models.Project) *models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.byID[p.ID] = &p
	return &p
}

func (f *fakeProjects) match(p *models.Project, filter models.ProjectFilter) bool {
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	return !filter.FeaturedOnly || p.Featured
}

func (f *fakeProjects) List(_ context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.byID {
		if f.match(p, filter) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeProjects) Count(_ context.Context, filter models.ProjectFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.byID {
		if f.match(p, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.add(*p)
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, p *models.Project) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return p, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProjects) SetImage(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Image = url
	return nil
}

func (f *fakeProjects) ExistsWithImage(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Image == url {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjects) CountByStatus(context.Context) ([]models.Count, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, p := range f.byID {
		counts[p.Status]++
	}
	return sortedCounts(counts), nil
}

func (f *fakeProjects) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.byID {
		if !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeProjects) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	return f.List(ctx, models.ProjectFilter{Limit: limit})
}

func sortedCounts(m map[string]int64) []models.Count {
	out := make([]models.Count, 0, len(m))
	for k, v := range m {
		out = append(out, models.Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// --- skills ---

type fakeSkills struct {
	mu   sync.Mutex
	byID map[string]*models.SkillCategory
}

func (f *fakeSkills) List(_ context.Context, category string, activeOnly bool, limit int) ([]models.SkillCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SkillCategory
	for _, c := range f.byID {
		if category != "" && c.Category != category {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSkills) Count(ctx context.Context, activeOnly bool) (int64, error) {
	out, _ := f.List(ctx, "", activeOnly, 0)
	return int64(len(out)), nil
}

func (f *fakeSkills) Get(_ context.Context, id string) (*models.SkillCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeSkills) Create(_ context.Context, c *models.SkillCategory) (*models.SkillCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	f.byID[c.ID] = &cp
	return c, nil
}

func (f *fakeSkills) Update(_ context.Context, c *models.SkillCategory) (*models.SkillCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return c, nil
}

func (f *fakeSkills) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- contacts ---

type fakeContacts struct {
	mu   sync.Mutex
	byID map[string]*models.Contact
	seq  int
}

func (f *fakeContacts) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = uuid.NewString()
	c.CreatedAt = time.Unix(int64(f.seq), 0)
	cp := *c
	f.byID[c.ID] = &cp
	return c, nil
}

func (f *fakeContacts) Get(_ context.Context, id string) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeContacts) filtered(status string) []models.Contact {
	var out []models.Contact
	for _, c := range f.byID {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeContacts) List(_ context.Context, status string, limit, offset int) ([]models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.filtered(status), limit, offset), nil
}

func (f *fakeContacts) Count(_ context.Context, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filtered(status))), nil
}

func (f *fakeContacts) UpdateStatus(_ context.Context, id, status string, reply *string, repliedAt *time.Time) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Status = status
	if reply != nil {
		c.ReplyMessage = reply
	}
	if repliedAt != nil {
		c.RepliedAt = repliedAt
	}
	out := *c
	return &out, nil
}

func (f *fakeContacts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeContacts) CountByStatus(context.Context) ([]models.Count, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, c := range f.byID {
		counts[c.Status]++
	}
	return sortedCounts(counts), nil
}

func (f *fakeContacts) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.byID {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeContacts) Recent(ctx context.Context, limit int) ([]models.Contact, error) {
	return f.List(ctx, "", limit, 0)
}

// --- views ---

type fakeViews struct {
	mu    sync.Mutex
	items []models.PortfolioView
	now   time.Time
}

func (f *fakeViews) Create(_ context.Context, v *models.PortfolioView) (*models.PortfolioView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = fmt.Sprintf("v-%d", len(f.items)+1)
	v.ViewedAt = f.now
	f.items = append(f.items, *v)
	return v, nil
}

func (f *fakeViews) ExistsSince(_ context.Context, ip, session string, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.items {
		if v.IPAddress == ip && v.SessionID == session && !v.ViewedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeViews) CountSince(_ context.Context, since time.Time, uniqueOnly bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.items {
		if !v.ViewedAt.Before(since) && (!uniqueOnly || v.IsUnique) {
			n++
		}
	}
	return n, nil
}

func (f *fakeViews) PageCounts(_ context.Context, since time.Time) ([]models.Count, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, v := range f.items {
		if !v.ViewedAt.Before(since) {
			counts[v.Page]++
		}
	}
	return sortedCounts(counts), nil
}

func (f *fakeViews) DailyCounts(_ context.Context, since time.Time) ([]views.DailyCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDay := map[time.Time]int64{}
	for _, v := range f.items {
		if !v.ViewedAt.Before(since) {
			byDay[v.ViewedAt.Truncate(24*time.Hour)]++
		}
	}
	var out []views.DailyCount
	for d, n := range byDay {
		out = append(out, views.DailyCount{Day: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (f *fakeViews) TopReferrers(_ context.Context, since time.Time, limit int) ([]models.Count, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, v := range f.items {
		if v.Referrer != "" && !v.ViewedAt.Before(since) {
			counts[v.Referrer]++
		}
	}
	out := sortedCounts(counts)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeViews) Recent(_ context.Context, limit int) ([]models.PortfolioView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.PortfolioView(nil), f.items...)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// --- payloads ---

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	putErr  error
	deleted []string
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}
