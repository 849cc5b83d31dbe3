// Package service coordinates position storage, rendering and notifications.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/trogers1052/trading-position-modeler/internal/models"
	"github.com/trogers1052/trading-position-modeler/internal/notify"
	"github.com/trogers1052/trading-position-modeler/internal/renderer"
)

const (
	serviceName = "PositionService"

	copySuffix    = " (copy)"
	maxNameLength = 50
)

// PositionRepository persists position inputs
type PositionRepository interface {
	ListPositionInputs(ctx context.Context, filter string) ([]*models.PositionInput, error)
	GetPositionInputByID(ctx context.Context, id string) (*models.PositionInput, error)
	CreatePositionInput(ctx context.Context, p *models.PositionInput) error
	UpdatePositionInput(ctx context.Context, p *models.PositionInput) error
	PatchPositionInputs(ctx context.Context, ids []string, patches []models.Patch) ([]*models.PositionInput, error)
	ReorderPositionInputs(ctx context.Context, items []models.MultiPatchItem) ([]*models.PositionInput, error)
	DeletePositionInput(ctx context.Context, id string) error
	DeletePositionInputs(ctx context.Context, ids []string) ([]string, error)
}

// RenderCache stores renderings by position ID
type RenderCache interface {
	Get(ctx context.Context, id string) (*models.RenderedPosition, bool)
	Set(ctx context.Context, id string, rendered *models.RenderedPosition)
	Invalidate(ctx context.Context, ids ...string)
}

// EventPublisher announces position changes to other systems
type EventPublisher interface {
	PublishPositionCreated(ctx context.Context, p *models.PositionInput) error
	PublishPositionUpdated(ctx context.Context, p *models.PositionInput) error
	PublishPositionDeleted(ctx context.Context, id string) error
	PublishPositionsReordered(ctx context.Context) error
}

// Option configures optional PositionService collaborators
type Option func(*PositionService)

// WithCache enables render caching
func WithCache(c RenderCache) Option {
	return func(s *PositionService) { s.cache = c }
}

// WithEvents enables change events
func WithEvents(e EventPublisher) Option {
	return func(s *PositionService) { s.events = e }
}

// PositionService wraps the repository with notifications, change events and
// cached rendering
type PositionService struct {
	repo     PositionRepository
	notifier notify.Notifier
	cache    RenderCache
	events   EventPublisher
	logger   zerolog.Logger
}

// NewPositionService creates a position service
func NewPositionService(repo PositionRepository, notifier notify.Notifier, logger zerolog.Logger, opts ...Option) *PositionService {
	s := &PositionService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("component", "position_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns stored positions in display order, keeping only names that
// contain filter when it is not empty
func (s *PositionService) List(ctx context.Context, filter string) ([]*models.PositionInput, error) {
	inputs, err := s.repo.ListPositionInputs(ctx, strings.TrimSpace(filter))
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	return inputs, nil
}

// Get returns a stored position
func (s *PositionService) Get(ctx context.Context, id string) (*models.PositionInput, error) {
	p, err := s.repo.GetPositionInputByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", err)
	}
	return p, nil
}

// Create stores a new position
func (s *PositionService) Create(ctx context.Context, p *models.PositionInput) (*models.PositionInput, error) {
	if err := s.repo.CreatePositionInput(ctx, p); err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	s.notifier.Success(ctx, "Position "+p.Name()+" created!")
	s.warnIfBotCandidate(ctx, p)
	s.publish("created", func() error { return s.events.PublishPositionCreated(ctx, p) })
	return p, nil
}

// Update replaces a stored position
func (s *PositionService) Update(ctx context.Context, p *models.PositionInput) (*models.PositionInput, error) {
	if err := s.repo.UpdatePositionInput(ctx, p); err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	s.invalidate(ctx, p.ID())
	s.notifier.Success(ctx, "Position "+p.Name()+" updated!")
	s.warnIfBotCandidate(ctx, p)
	s.publish("updated", func() error { return s.events.PublishPositionUpdated(ctx, p) })
	return p, nil
}

// PatchMany applies one patch document to every listed position
func (s *PositionService) PatchMany(ctx context.Context, ids []string, patches []models.Patch) ([]*models.PositionInput, error) {
	updated, err := s.repo.PatchPositionInputs(ctx, ids, patches)
	if err != nil {
		return nil, s.fail(ctx, "patch", err)
	}

	s.invalidate(ctx, idsOf(updated)...)
	s.notifier.Success(ctx, fmt.Sprintf("%d Position(s) updated!", len(updated)))
	for _, p := range updated {
		s.warnIfBotCandidate(ctx, p)
		s.publish("updated", func() error { return s.events.PublishPositionUpdated(ctx, p) })
	}
	return updated, nil
}

// Reorder persists a new display order
func (s *PositionService) Reorder(ctx context.Context, items []models.MultiPatchItem) ([]*models.PositionInput, error) {
	updated, err := s.repo.ReorderPositionInputs(ctx, items)
	if err != nil {
		return nil, s.fail(ctx, "reorder", err)
	}

	s.invalidate(ctx, idsOf(updated)...)
	s.notifier.Success(ctx, fmt.Sprintf("%d Position(s) ordering updated!", len(updated)))
	s.publish("reordered", func() error { return s.events.PublishPositionsReordered(ctx) })
	return updated, nil
}

// Delete removes a stored position
func (s *PositionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeletePositionInput(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.invalidate(ctx, id)
	s.notifier.Success(ctx, "Position deleted!")
	s.publish("deleted", func() error { return s.events.PublishPositionDeleted(ctx, id) })
	return nil
}

// DeleteMany removes every listed position and returns how many were deleted
func (s *PositionService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	deleted, err := s.repo.DeletePositionInputs(ctx, ids)
	if err != nil {
		return 0, s.fail(ctx, "delete many", err)
	}

	s.invalidate(ctx, deleted...)
	s.notifier.Success(ctx, fmt.Sprintf("%d position(s) deleted!", len(deleted)))
	for _, id := range deleted {
		s.publish("deleted", func() error { return s.events.PublishPositionDeleted(ctx, id) })
	}
	return int64(len(deleted)), nil
}

// Duplicate stores a copy of a position at the end of the list
func (s *PositionService) Duplicate(ctx context.Context, id string) (*models.PositionInput, error) {
	original, err := s.repo.GetPositionInputByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "duplicate", err)
	}

	dup := original.Clone()
	dup.SetID("")
	dup.SetName(copyName(original.Name()))
	dup.SetListPosition(models.DefaultListPosition)
	return s.Create(ctx, dup)
}

// Render returns the scenarios of a stored position. A cached rendering is used
// only while it was produced from the currently stored values.
func (s *PositionService) Render(ctx context.Context, id string) (*models.RenderedPosition, error) {
	p, err := s.repo.GetPositionInputByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "render", err)
	}

	if s.cache != nil {
		if hit, ok := s.cache.Get(ctx, id); ok && hit.Input.PositionInputRecord == p.Record() {
			return hit, nil
		}
	}

	rendered := renderer.RenderPosition(p)
	if s.cache != nil {
		s.cache.Set(ctx, id, rendered)
	}
	return rendered, nil
}

// RenderInput renders an unsaved position
func (s *PositionService) RenderInput(p *models.PositionInput) *models.RenderedPosition {
	return renderer.RenderPosition(p)
}

// fail reports an operation failure to the user and returns the error unchanged
func (s *PositionService) fail(ctx context.Context, operation string, err error) error {
	s.logger.Error().Err(err).Str("operation", operation).Msg("Position operation failed")
	s.notifier.Error(ctx, fmt.Sprintf("%s: %s failed: %v", serviceName, operation, err))
	return err
}

func (s *PositionService) warnIfBotCandidate(ctx context.Context, p *models.PositionInput) {
	if p.IsBotCandidate() {
		s.notifier.Warn(ctx, p.BotCandidateMessage())
	}
}

func (s *PositionService) invalidate(ctx context.Context, ids ...string) {
	if s.cache != nil && len(ids) > 0 {
		s.cache.Invalidate(ctx, ids...)
	}
}

// publish sends a change event when events are enabled. Failures are logged only.
func (s *PositionService) publish(kind string, send func() error) {
	if s.events == nil {
		return
	}
	if err := send(); err != nil {
		s.logger.Warn().Err(err).Str("event", kind).Msg("Failed to publish position event")
	}
}

func idsOf(inputs []*models.PositionInput) []string {
	ids := make([]string, len(inputs))
	for i, p := range inputs {
		ids[i] = p.ID()
	}
	return ids
}

// copyName appends the copy suffix, shortening the original so the result
// still fits the name column
func copyName(name string) string {
	runes := []rune(name)
	limit := maxNameLength - len(copySuffix)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + copySuffix
}
