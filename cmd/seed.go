package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	seedPath  string
	seedOwner string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga usuarios, contactos e inmuebles desde un archivo YAML",
	Long: `Carga datos de ejemplo. Los inmuebles pasan por el mismo asistente
que usa la API, así que se validan igual que un alta manual.

Ejemplo:
  glor-crm seed --file seed.yaml --owner admin@glor.mx`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "seed.yaml", "Archivo YAML con los datos")
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "Email del usuario dueño de contactos e inmuebles (default: primer usuario del archivo)")
}

// seedFile es el formato del archivo de datos iniciales
type seedFile struct {
	Users      []seedUser       `yaml:"users"`
	Contacts   []seedContact    `yaml:"contacts"`
	Properties []map[string]any `yaml:"properties"`
}

type seedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
}

type seedContact struct {
	FullName     string   `yaml:"full_name"`
	Phone        string   `yaml:"phone"`
	Email        string   `yaml:"email"`
	Company      string   `yaml:"company"`
	Tag          string   `yaml:"tag"`
	Status       string   `yaml:"status"`
	LeadSource   string   `yaml:"lead_source"`
	Birthday     string   `yaml:"birthday"`
	Anniversary  string   `yaml:"anniversary"`
	BudgetMin    *float64 `yaml:"budget_min"`
	BudgetMax    *float64 `yaml:"budget_max"`
	Currency     string   `yaml:"currency"`
	InterestZone string   `yaml:"interest_zone"`
	Notes        string   `yaml:"notes"`
}

// loadSeed decodifica el archivo; los campos desconocidos son error
func loadSeed(r io.Reader) (*seedFile, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return &seed, nil
		}
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &seed, nil
}

func (c seedContact) request() (dto.ContactRequest, error) {
	req := dto.ContactRequest{
		FullName:     c.FullName,
		Phone:        c.Phone,
		Email:        optional(c.Email),
		Company:      optional(c.Company),
		Tag:          c.Tag,
		Status:       c.Status,
		LeadSource:   c.LeadSource,
		BudgetMin:    c.BudgetMin,
		BudgetMax:    c.BudgetMax,
		Currency:     c.Currency,
		InterestZone: optional(c.InterestZone),
		Notes:        optional(c.Notes),
	}

	var err error
	if req.Birthday, err = optionalDate(c.Birthday); err != nil {
		return req, fmt.Errorf("birthday: %w", err)
	}
	if req.Anniversary, err = optionalDate(c.Anniversary); err != nil {
		return req, fmt.Errorf("anniversary: %w", err)
	}
	return req, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// seeder carga un seedFile con los servicios de la aplicación
type seeder struct {
	auth     services.AuthService
	users    repositories.UserRepository
	contacts services.ContactService
	wizards  services.WizardService
	logger   *zap.Logger
}

// seedStats resume lo que se cargó
type seedStats struct {
	Users      int
	Contacts   int
	Properties int
}

func (s *seeder) run(ctx context.Context, seed *seedFile, ownerEmail string) (seedStats, error) {
	var stats seedStats

	for _, u := range seed.Users {
		_, err := s.auth.Register(ctx, dto.RegisterRequest{
			Email: u.Email, Password: u.Password, FullName: u.FullName, Role: u.Role,
		})
		if errors.Is(err, services.ErrEmailTaken) {
			s.logger.Info("User already exists, skipping", zap.String("email", u.Email))
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("user %s: %w", u.Email, err)
		}
		stats.Users++
	}

	if len(seed.Contacts) == 0 && len(seed.Properties) == 0 {
		return stats, nil
	}

	if ownerEmail == "" {
		if len(seed.Users) == 0 {
			return stats, errors.New("an owner is required to seed contacts and properties")
		}
		ownerEmail = seed.Users[0].Email
	}
	owner, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return stats, fmt.Errorf("owner %s: %w", ownerEmail, err)
	}

	for i, c := range seed.Contacts {
		req, err := c.request()
		if err != nil {
			return stats, fmt.Errorf("contact #%d: %w", i+1, err)
		}
		if _, err := s.contacts.Create(ctx, owner.ID, req); err != nil {
			return stats, fmt.Errorf("contact #%d (%s): %w", i+1, c.FullName, err)
		}
		stats.Contacts++
	}

	identity := &wizard.Identity{UserID: owner.ID, Email: owner.Email}
	for i, fields := range seed.Properties {
		if err := s.seedProperty(ctx, identity, fields); err != nil {
			return stats, fmt.Errorf("property #%d: %w", i+1, err)
		}
		stats.Properties++
	}

	return stats, nil
}

// seedProperty recorre el asistente completo: llena los campos, avanza
// paso por paso y envía desde el último.
func (s *seeder) seedProperty(ctx context.Context, identity *wizard.Identity, fields map[string]any) error {
	view, err := s.wizards.Start(ctx, identity.UserID, "")
	if err != nil {
		return err
	}
	sessionID := view.ID

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := s.wizards.UpdateField(ctx, identity.UserID, sessionID, name, fields[name]); err != nil {
			_ = s.wizards.Discard(ctx, identity.UserID, sessionID)
			return err
		}
	}

	for view.Step < wizard.StepCount {
		if view, err = s.wizards.Advance(ctx, identity.UserID, sessionID); err != nil {
			_ = s.wizards.Discard(ctx, identity.UserID, sessionID)
			return err
		}
	}

	result, err := s.wizards.Submit(ctx, identity, sessionID)
	if err != nil {
		_ = s.wizards.Discard(ctx, identity.UserID, sessionID)
		return err
	}
	s.logger.Info("Property seeded", zap.String("id", result.Record.ID), zap.String("title", result.Record.Title))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedPath)
	if err != nil {
		return err
	}
	defer f.Close()

	seed, err := loadSeed(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openMigrated(ctx)
	if err != nil {
		return err
	}
	defer a.Close(logger)

	s := &seeder{
		auth:     a.authService,
		users:    a.users,
		contacts: a.contactService,
		wizards:  a.wizardService,
		logger:   logger,
	}
	stats, err := s.run(ctx, seed, seedOwner)
	if err != nil {
		return err
	}

	logger.Info("Seed complete",
		zap.Int("users", stats.Users),
		zap.Int("contacts", stats.Contacts),
		zap.Int("properties", stats.Properties))
	return nil
}
