package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wizardFixture struct {
	service    WizardService
	sessions   *mockWizardSessions
	properties *mockPropertyRepository
	publisher  *recordingPublisher
}

func newWizardFixture() wizardFixture {
	sessions := newMockWizardSessions()
	properties := newMockPropertyRepository()
	publisher := &recordingPublisher{}
	return wizardFixture{
		service:    NewWizardService(sessions, properties, publisher, zap.NewNop()),
		sessions:   sessions,
		properties: properties,
		publisher:  publisher,
	}
}

// walkToMedia llena título y precio y avanza hasta el último paso
func walkToMedia(t *testing.T, svc WizardService, userID, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.UpdateField(ctx, userID, sessionID, "title", "Casa en la playa")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, userID, sessionID, "price_local", "2500000")
	require.NoError(t, err)
	for i := 1; i < wizard.StepCount; i++ {
		_, err := svc.Advance(ctx, userID, sessionID)
		require.NoError(t, err)
	}
}

func TestWizardService_CreateFlow(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()

	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)
	assert.Equal(t, "create", view.Mode)
	assert.Equal(t, 1, view.Step)

	_, err = f.service.ToggleSetMember(ctx, "u-1", view.ID, "amenities", "pool")
	require.NoError(t, err)
	walkToMedia(t, f.service, "u-1", view.ID)

	result, err := f.service.Submit(ctx, &wizard.Identity{UserID: "u-1", Email: "ana@glor.mx"}, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "property created", result.Message)
	assert.Equal(t, "/properties", result.RedirectTo)
	assert.Equal(t, "u-1", result.Record.UserID)
	assert.Equal(t, []string{"pool"}, []string(result.Record.Amenities))

	// La sesión se descarta al guardar
	_, err = f.service.Get(ctx, "u-1", view.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EntityEvent{Action: "create", Entity: "property", EntityID: result.Record.ID, UserID: "u-1"}, events[0])
}

func TestWizardService_AdvanceBlocked(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)

	view, err = f.service.Advance(ctx, "u-1", view.ID)

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"title": wizard.MsgTitleRequired}, verr.Fields)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, wizard.MsgTitleRequired, view.Errors["title"])
}

func TestWizardService_EditFlow(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	city := "Tulum"
	existing := &domain.Property{
		Title:         "Depto centro",
		PropertyType:  domain.PropertyTypeApartment,
		OperationType: domain.OperationRent,
		Status:        domain.PropertyAvailable,
		PriceLocal:    18000,
		Country:       "México",
		City:          &city,
		UserID:        "owner-1",
	}
	require.NoError(t, f.properties.Create(ctx, existing))

	view, err := f.service.Start(ctx, "u-2", existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "edit", view.Mode)
	assert.Equal(t, "Depto centro", view.Draft.Title)
	assert.Equal(t, "18000", view.Draft.PriceLocal)

	// En edición se puede saltar directo al último paso
	_, err = f.service.JumpTo(ctx, "u-2", view.ID, wizard.StepCount)
	require.NoError(t, err)
	_, err = f.service.UpdateField(ctx, "u-2", view.ID, "price_local", 19500)
	require.NoError(t, err)

	result, err := f.service.Submit(ctx, &wizard.Identity{UserID: "u-2"}, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "property updated", result.Message)
	assert.Equal(t, "/properties/"+existing.ID, result.RedirectTo)
	assert.Equal(t, 19500.0, result.Record.PriceLocal)
	assert.Equal(t, "owner-1", result.Record.UserID, "the owner does not change on edit")

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "update", events[0].Action)
	assert.Equal(t, "u-2", events[0].UserID)
}

func TestWizardService_StartEditUnknownProperty(t *testing.T) {
	f := newWizardFixture()

	_, err := f.service.Start(context.Background(), "u-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Test: otro usuario no ve la sesión
func TestWizardService_SessionOwnership(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)

	_, err = f.service.Get(ctx, "u-2", view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.service.UpdateField(ctx, "u-2", view.ID, "title", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.service.Submit(ctx, &wizard.Identity{UserID: "u-2"}, view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.service.Discard(ctx, "u-2", view.ID), ErrNotFound)
}

func TestWizardService_SubmitWithoutIdentity(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)
	walkToMedia(t, f.service, "u-1", view.ID)

	_, err = f.service.Submit(ctx, nil, view.ID)
	assert.ErrorIs(t, err, wizard.ErrNotSignedIn)
	_, err = f.service.Submit(ctx, &wizard.Identity{}, view.ID)
	assert.ErrorIs(t, err, wizard.ErrNotSignedIn)
	assert.Empty(t, f.properties.properties)
	assert.Empty(t, f.publisher.Events())

	_, err = f.service.Get(ctx, "u-1", view.ID)
	assert.NoError(t, err, "session survives a rejected submit")
}

// Test: una sesión de edición ajena no se envía aunque falte la identidad
func TestWizardService_EditSubmitChecksOwner(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	existing := &domain.Property{
		Title:         "Depto centro",
		PropertyType:  domain.PropertyTypeApartment,
		OperationType: domain.OperationRent,
		Status:        domain.PropertyAvailable,
		PriceLocal:    18000,
		Country:       "México",
		UserID:        "u-1",
	}
	require.NoError(t, f.properties.Create(ctx, existing))
	existing.CreatedAt = created

	view, err := f.service.Start(ctx, "u-1", existing.ID)
	require.NoError(t, err)
	_, err = f.service.JumpTo(ctx, "u-1", view.ID, wizard.StepCount)
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, nil, view.ID)
	assert.ErrorIs(t, err, wizard.ErrNotSignedIn)
	_, err = f.service.Submit(ctx, &wizard.Identity{UserID: "u-2"}, view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Same(t, existing, f.properties.properties[existing.ID], "record untouched")
	assert.Empty(t, f.publisher.Events())

	result, err := f.service.Submit(ctx, &wizard.Identity{UserID: "u-1"}, view.ID)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, created, result.Record.CreatedAt)
	assert.False(t, result.Record.UpdatedAt.IsZero())
}

// Test: un error del almacén conserva la sesión para reintentar
func TestWizardService_PersistenceErrorKeepsSession(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	identity := &wizard.Identity{UserID: "u-1"}
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)
	walkToMedia(t, f.service, "u-1", view.ID)

	f.properties.failWith = errors.New("duplicate key value violates unique constraint")
	_, err = f.service.Submit(ctx, identity, view.ID)
	var perr *wizard.PersistenceError
	require.ErrorAs(t, err, &perr)

	current, err := f.service.Get(ctx, "u-1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa en la playa", current.Draft.Title)
	assert.Equal(t, "duplicate key value violates unique constraint", current.Errors["submit"])

	f.properties.failWith = nil
	_, err = f.service.Submit(ctx, identity, view.ID)
	assert.NoError(t, err)
}

func TestWizardService_Discard(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)

	require.NoError(t, f.service.Discard(ctx, "u-1", view.ID))
	_, err = f.service.Get(ctx, "u-1", view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWizardService_RetreatAndJump(t *testing.T) {
	f := newWizardFixture()
	ctx := context.Background()
	view, err := f.service.Start(ctx, "u-1", "")
	require.NoError(t, err)

	_, err = f.service.JumpTo(ctx, "u-1", view.ID, 3)
	assert.ErrorIs(t, err, wizard.ErrStepLocked)

	_, err = f.service.UpdateField(ctx, "u-1", view.ID, "title", "Terreno")
	require.NoError(t, err)
	view, err = f.service.Advance(ctx, "u-1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Step)

	view, err = f.service.Retreat(ctx, "u-1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Step)

	view, err = f.service.JumpTo(ctx, "u-1", view.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Step)
}
