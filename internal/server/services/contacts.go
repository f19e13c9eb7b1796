package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/mailer"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const autoReplyTimeout = 30 * time.Second

type ContactInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Subject   string `json:"subject" validate:"required,min=5,max=100"`
	Message   string `json:"message" validate:"required,min=10,max=1000"`
}

// Client is the origin of a public request.
type Client struct {
	IP        string
	UserAgent string
}

type StatusInput struct {
	Status       string  `json:"status" validate:"required,oneof=unread read replied archived"`
	ReplyMessage *string `json:"replyMessage"`
}

type ContactService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	log         logging.Logger
	now         func() time.Time
	// async runs the auto-reply off the request path.
	async func(func())
}

// NewContactService builds the service. A nil mailer disables auto-replies.
func NewContactService(db *sqlx.DB, m repomanager.RepositoryManager, ml mailer.Mailer, log logging.Logger) *ContactService {
	return &ContactService{
		db:          db,
		repomanager: m,
		mailer:      ml,
		log:         log.With("module", "contacts"),
		now:         time.Now,
		async:       func(f func()) { go f() },
	}
}

// Submit records a message from the public contact form.
func (s *ContactService) Submit(ctx context.Context, in ContactInput, client Client) (*models.Contact, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	st, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if !st.FormEnabled {
		return nil, fmt.Errorf("%w: contact form is disabled", common.ErrForbidden)
	}

	c, err := s.repomanager.Contacts(s.db).Create(ctx, &models.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    models.ContactUnread,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	if st.AutoReplyEnabled && s.mailer != nil {
		s.sendAutoReply(ctx, c, st.AutoReplyMessage)
	}
	return c, nil
}

func (s *ContactService) sendAutoReply(ctx context.Context, c *models.Contact, body string) {
	msg := mailer.Message{
		To:      c.Email,
		Subject: "Re: " + c.Subject,
		Body:    fmt.Sprintf("Hi %s,\n\n%s", c.FirstName, body),
	}
	// detached from the request so a finished response does not cancel delivery
	bg := context.WithoutCancel(ctx)

	s.async(func() {
		ctx, cancel := context.WithTimeout(bg, autoReplyTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Warn(ctx, "auto-reply failed", "contact", c.ID, "error", err)
			return
		}
		s.log.Info(ctx, "auto-reply sent", "contact", c.ID)
	})
}

func (s *ContactService) List(ctx context.Context, status string, page, pageSize int) (*models.Page[models.Contact], error) {
	if status != "" {
		if err := validate.Var(status, "oneof=unread read replied archived"); err != nil {
			return nil, newValidationError("status", "must be one of: unread read replied archived")
		}
	}
	page, pageSize = NormalizePage(page, pageSize)

	repo := s.repomanager.Contacts(s.db)
	total, err := repo.Count(ctx, status)
	if err != nil {
		return nil, err
	}
	items, err := repo.List(ctx, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, page, pageSize), nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Contacts(s.db).Get(ctx, id)
}

// UpdateStatus changes a message's status. Marking it replied with a reply
// text stamps the reply time.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var repliedAt *time.Time
	reply := in.ReplyMessage
	if in.Status == models.ContactReplied && reply != nil {
		now := s.now()
		repliedAt = &now
	} else {
		reply = nil
	}

	return s.repomanager.Contacts(s.db).UpdateStatus(ctx, id, in.Status, reply, repliedAt)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Contacts(s.db).Delete(ctx, id)
}

func (s *ContactService) Settings(ctx context.Context) (*models.ContactSettings, error) {
	return loadSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsContact, models.DefaultContactSettings())
}

func (s *ContactService) UpdateSettings(ctx context.Context, in *models.ContactSettings) (*models.ContactSettings, error) {
	return saveSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsContact, in)
}
