package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/config"
	"github.com/waslahq/wasla/internal/contact/domain"
	"github.com/waslahq/wasla/internal/providers/email"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
	Users authdomain.Repository
	Email email.Provider
}

type Service struct {
	log    *zap.Logger
	cfg    config.Config
	clock  clock.Clock
	genID  *snowflake.Node
	repo   domain.Repository
	users  authdomain.Repository
	mailer email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("contact.service"),
		cfg:    p.Cfg,
		clock:  p.Clock,
		genID:  p.GenID,
		repo:   p.Repo,
		users:  p.Users,
		mailer: p.Email,
	}
}

func invalid(field string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidSubmission, field)
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.ContactRequest, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" {
		return nil, invalid("first_name")
	}
	if lastName == "" {
		return nil, invalid("last_name")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, invalid("email")
	}
	if !domain.ValidPhone(strings.TrimSpace(req.Phone)) {
		return nil, invalid("phone")
	}
	if !domain.ValidCountryCode(strings.TrimSpace(req.CountryCode)) {
		return nil, invalid("country_code")
	}
	if strings.TrimSpace(req.Country) == "" {
		return nil, invalid("country")
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, invalid("business_name")
	}
	if !domain.ValidLocationBucket(req.NumLocations) {
		return nil, invalid("num_locations")
	}
	if !domain.ValidReferralSource(req.ReferralSource) {
		return nil, invalid("referral_source")
	}
	language := req.LanguagePreference
	if language == "" {
		language = "en"
	}
	if !domain.ValidLanguage(language) {
		return nil, invalid("language_preference")
	}

	now := s.clock.Now()
	contact := &domain.ContactRequest{
		ID:                 s.genID.Generate(),
		FirstName:          firstName,
		LastName:           lastName,
		Email:              strings.ToLower(addr.Address),
		Phone:              strings.TrimSpace(req.Phone),
		CountryCode:        strings.TrimSpace(req.CountryCode),
		Country:            strings.TrimSpace(req.Country),
		BusinessName:       strings.TrimSpace(req.BusinessName),
		NumLocations:       req.NumLocations,
		ReferralSource:     req.ReferralSource,
		MarketingConsent:   req.MarketingConsent,
		LanguagePreference: language,
		Status:             domain.StatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	s.log.Info("contact request received",
		zap.String("contact_id", contact.ID.String()),
		zap.String("country", contact.Country),
		zap.String("referral_source", contact.ReferralSource),
	)
	s.notifySales(contact)
	return contact, nil
}

// notifySales emails the sales inbox in the background so a slow SMTP
// server never delays the public form response.
func (s *Service) notifySales(contact *domain.ContactRequest) {
	recipients := s.cfg.Email.AdminEmails
	if len(recipients) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		subject := fmt.Sprintf("New contact request: %s %s (%s)",
			contact.FirstName, contact.LastName, contact.BusinessName)
		body := fmt.Sprintf(
			`<h2>New Contact Request</h2>
<p><strong>Name:</strong> %s %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s %s</p>
<p><strong>Country:</strong> %s</p>
<p><strong>Business:</strong> %s</p>
<p><strong>Locations:</strong> %s</p>
<p><strong>Referral Source:</strong> %s</p>
<p><strong>Language:</strong> %s</p>`,
			contact.FirstName, contact.LastName,
			contact.Email,
			contact.CountryCode, contact.Phone,
			contact.Country,
			contact.BusinessName,
			contact.NumLocations,
			contact.ReferralSource,
			contact.LanguagePreference,
		)
		if err := s.mailer.Send(ctx, recipients, subject, body); err != nil {
			s.log.Warn("contact notification failed",
				zap.String("contact_id", contact.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

// scopeFor narrows the filter to what the actor may see.
func scopeFor(actor *authdomain.User, filter domain.ListFilter) (domain.ListFilter, error) {
	if actor == nil || !domain.CanViewLeads(actor.Role) {
		return filter, domain.ErrLeadAccessDenied
	}
	if actor.Role == authdomain.RoleSalesman {
		filter.AssignedTo = actor.ID
	}
	return filter, nil
}

func (s *Service) List(ctx context.Context, actor *authdomain.User, filter domain.ListFilter, p pagination.Pagination) ([]domain.ListItem, error) {
	filter, err := scopeFor(actor, filter)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(contacts))
	for _, contact := range contacts {
		ids = append(ids, contact.ID)
	}
	counts, err := s.repo.CountNotes(ctx, ids)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}

	salesmen := map[snowflake.ID]*domain.AssignedTo{}
	if len(assignments) > 0 {
		users, err := s.users.ListByRole(ctx, authdomain.RoleSalesman, false)
		if err != nil {
			return nil, err
		}
		for i := range users {
			salesmen[users[i].ID] = &domain.AssignedTo{
				ID:       users[i].ID,
				Email:    users[i].Email,
				FullName: users[i].FullName,
			}
		}
	}
	assigned := make(map[snowflake.ID]*domain.AssignedTo, len(assignments))
	for _, assignment := range assignments {
		assigned[assignment.ContactRequestID] = salesmen[assignment.SalesmanID]
	}

	items := make([]domain.ListItem, 0, len(contacts))
	for _, contact := range contacts {
		items = append(items, domain.ListItem{
			ContactRequest: contact,
			NotesCount:     counts[contact.ID],
			Assigned:       assigned[contact.ID],
		})
	}
	return items, nil
}

// authorize loads a lead and checks the actor may touch it. Salesmen
// only reach leads assigned to them.
func (s *Service) authorize(ctx context.Context, actor *authdomain.User, id snowflake.ID) (*domain.ContactRequest, error) {
	if actor == nil || !domain.CanViewLeads(actor.Role) {
		return nil, domain.ErrLeadAccessDenied
	}
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == authdomain.RoleSalesman {
		ok, err := s.repo.IsAssignedTo(ctx, id, actor.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotAssigned
		}
	}
	return contact, nil
}

func (s *Service) Detail(ctx context.Context, actor *authdomain.User, id snowflake.ID) (*domain.Detail, error) {
	contact, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		return nil, err
	}

	authors := map[snowflake.ID]string{}
	views := make([]domain.NoteView, 0, len(notes))
	for _, note := range notes {
		authorEmail, seen := authors[note.AuthorID]
		if !seen {
			author, err := s.users.FindByID(ctx, note.AuthorID)
			switch {
			case errors.Is(err, authdomain.ErrUserNotFound):
				authorEmail = ""
			case err != nil:
				return nil, err
			default:
				authorEmail = author.Email
			}
			authors[note.AuthorID] = authorEmail
		}
		views = append(views, domain.NoteView{
			ID:               note.ID,
			ContactRequestID: note.ContactRequestID,
			NoteText:         note.NoteText,
			AuthorEmail:      authorEmail,
			CreatedAt:        note.CreatedAt,
		})
	}
	return &domain.Detail{ContactRequest: *contact, Notes: views}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor *authdomain.User, id snowflake.ID, status domain.Status) (*domain.ContactRequest, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	contact, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}
	s.log.Info("lead status updated",
		zap.String("contact_id", id.String()),
		zap.String("from", string(contact.Status)),
		zap.String("to", string(status)),
		zap.String("actor_id", actor.ID.String()),
	)
	contact.Status = status
	contact.UpdatedAt = now
	return contact, nil
}

func (s *Service) AddNote(ctx context.Context, actor *authdomain.User, id snowflake.ID, text string) (*domain.NoteView, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(trimmed) > domain.MaxNoteLength {
		return nil, domain.ErrInvalidNote
	}
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	note := &domain.ContactNote{
		ID:               s.genID.Generate(),
		ContactRequestID: id,
		AuthorID:         actor.ID,
		NoteText:         trimmed,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return &domain.NoteView{
		ID:               note.ID,
		ContactRequestID: note.ContactRequestID,
		NoteText:         note.NoteText,
		AuthorEmail:      actor.Email,
		CreatedAt:        note.CreatedAt,
	}, nil
}

var csvHeader = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Country",
	"Business Name", "Locations", "Referral Source", "Marketing Consent",
	"Language", "Status", "Created At", "Updated At",
}

const csvTimeLayout = "2006-01-02 15:04:05"

func (s *Service) ExportCSV(ctx context.Context, filter domain.ListFilter) ([]byte, string, error) {
	contacts, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	// BOM keeps Excel from mangling Arabic names.
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, "", err
	}
	for _, contact := range contacts {
		consent := "No"
		if contact.MarketingConsent {
			consent = "Yes"
		}
		record := []string{
			contact.ID.String(),
			contact.FirstName,
			contact.LastName,
			contact.Email,
			fmt.Sprintf("%s %s", contact.CountryCode, contact.Phone),
			contact.Country,
			contact.BusinessName,
			contact.NumLocations,
			contact.ReferralSource,
			consent,
			contact.LanguagePreference,
			string(contact.Status),
			contact.CreatedAt.Format(csvTimeLayout),
			contact.UpdatedAt.Format(csvTimeLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	name := "contact_requests"
	if filter.Status != "" {
		name += "_" + string(filter.Status)
	}
	if filter.Country != "" || filter.ReferralSource != "" || filter.LanguagePreference != "" ||
		filter.MarketingConsent != nil || filter.CreatedFrom != nil || filter.CreatedTo != nil {
		name += "_filtered"
	}
	name += "_" + s.clock.Now().Format("20060102_150405") + ".csv"

	s.log.Info("lead export generated",
		zap.Int("rows", len(contacts)),
		zap.String("filename", name),
	)
	return buf.Bytes(), name, nil
}

func (s *Service) Assign(ctx context.Context, actor *authdomain.User, leadID, salesmanID snowflake.ID) (*domain.AssignmentView, error) {
	if _, err := s.repo.FindByID(ctx, leadID); err != nil {
		return nil, err
	}
	salesman, err := s.users.FindByID(ctx, salesmanID)
	if err != nil {
		return nil, err
	}
	if salesman.Role != authdomain.RoleSalesman {
		return nil, domain.ErrNotSalesman
	}

	now := s.clock.Now()
	saved, err := s.repo.UpsertAssignment(ctx, &domain.LeadAssignment{
		ID:               s.genID.Generate(),
		ContactRequestID: leadID,
		SalesmanID:       salesmanID,
		AssignedByID:     actor.ID,
		AssignedAt:       now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lead assigned",
		zap.String("contact_id", leadID.String()),
		zap.String("salesman_id", salesmanID.String()),
		zap.String("assigned_by", actor.ID.String()),
	)
	return &domain.AssignmentView{
		ID:               saved.ID,
		ContactRequestID: saved.ContactRequestID,
		SalesmanID:       saved.SalesmanID,
		SalesmanEmail:    salesman.Email,
		SalesmanName:     salesman.FullName,
		AssignedByID:     saved.AssignedByID,
		AssignedAt:       saved.AssignedAt,
	}, nil
}

func (s *Service) Unassign(ctx context.Context, leadID snowflake.ID) error {
	if err := s.repo.DeleteAssignment(ctx, leadID); err != nil {
		return err
	}
	s.log.Info("lead unassigned", zap.String("contact_id", leadID.String()))
	return nil
}
