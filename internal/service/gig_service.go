package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/repository"
)

// Тело POST /events.
type GigInput struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Venue       string   `json:"venue"`
	City        string   `json:"city"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Artists     string   `json:"artists"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	ImageURL    string   `json:"image_url"`
	Status      string   `json:"status"`
}

// Тело PUT /events/:id. Меняются только присланные поля,
// price и capacity можно сбросить явным null.
type GigPatch struct {
	Name        *string           `json:"name"`
	Date        *string           `json:"date"`
	Time        *string           `json:"time"`
	Venue       *string           `json:"venue"`
	City        *string           `json:"city"`
	Type        *string           `json:"type"`
	Description *string           `json:"description"`
	Artists     *string           `json:"artists"`
	Price       Nullable[float64] `json:"price"`
	Capacity    Nullable[int]     `json:"capacity"`
	ImageURL    *string           `json:"image_url"`
	Status      *string           `json:"status"`
}

// Афиша выступлений: чтение публичное, запись из админки.
type GigService struct {
	store repository.Store
	log   *zap.Logger
}

func NewGigService(store repository.Store, log *zap.Logger) *GigService {
	return &GigService{store: store, log: log}
}

func (s *GigService) List(ctx context.Context, status string) ([]model.Gig, error) {
	st := model.GigStatus(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, &ValidationError{Message: "invalid status filter"}
	}
	gigs, err := s.store.Repos().Gigs.List(ctx, st)
	if err != nil {
		return nil, s.internal("list events", err)
	}
	return gigs, nil
}

func (s *GigService) Get(ctx context.Context, id uuid.UUID) (*model.Gig, error) {
	g, err := s.store.Repos().Gigs.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError("get event", id, err)
	}
	return g, nil
}

func (s *GigService) Create(ctx context.Context, in GigInput) (*model.Gig, error) {
	if missing := missingFields(
		"name", in.Name,
		"date", in.Date,
		"venue", in.Venue,
	); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	g := &model.Gig{
		Name:        strings.TrimSpace(in.Name),
		Time:        strings.TrimSpace(in.Time),
		Venue:       strings.TrimSpace(in.Venue),
		City:        strings.TrimSpace(in.City),
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Artists:     strings.TrimSpace(in.Artists),
		Price:       in.Price,
		Capacity:    in.Capacity,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Status:      model.GigStatus(strings.TrimSpace(in.Status)),
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date format"}
	}
	g.Date = model.DateOf(date)
	if err := normalizeGig(g); err != nil {
		return nil, err
	}

	if err := s.store.Repos().Gigs.Create(ctx, g); err != nil {
		return nil, s.internal("create event", err)
	}
	s.log.Info("event created", zap.String("event_id", g.ID.String()), zap.String("date", g.DateString()))
	return g, nil
}

func (s *GigService) Update(ctx context.Context, id uuid.UUID, p GigPatch) (*model.Gig, error) {
	var updated *model.Gig
	err := s.store.Transaction(ctx, func(r repository.Repositories) error {
		g, err := r.Gigs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.apply(g); err != nil {
			return err
		}
		if err := normalizeGig(g); err != nil {
			return err
		}
		if err := r.Gigs.Update(ctx, g); err != nil {
			return err
		}
		updated = g
		return nil
	})
	if err != nil {
		if typed := asTyped(err); typed != nil {
			return nil, typed
		}
		return nil, s.lookupError("update event", id, err)
	}
	s.log.Info("event updated", zap.String("event_id", id.String()))
	return updated, nil
}

func (s *GigService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Repos().Gigs.Delete(ctx, id); err != nil {
		return s.lookupError("delete event", id, err)
	}
	s.log.Info("event deleted", zap.String("event_id", id.String()))
	return nil
}

func (p GigPatch) apply(g *model.Gig) error {
	if p.Date != nil {
		d, err := parseDate(*p.Date)
		if err != nil {
			return &ValidationError{Message: "invalid date format"}
		}
		g.Date = model.DateOf(d)
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{p.Name, &g.Name},
		{p.Time, &g.Time},
		{p.Venue, &g.Venue},
		{p.City, &g.City},
		{p.Type, &g.Type},
		{p.Description, &g.Description},
		{p.Artists, &g.Artists},
		{p.ImageURL, &g.ImageURL},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if p.Status != nil {
		g.Status = model.GigStatus(strings.TrimSpace(*p.Status))
	}
	if p.Price.Set {
		g.Price = p.Price.Value
	}
	if p.Capacity.Set {
		g.Capacity = p.Capacity.Value
	}

	if g.Name == "" || g.Venue == "" {
		var missing []string
		if g.Name == "" {
			missing = append(missing, "name")
		}
		if g.Venue == "" {
			missing = append(missing, "venue")
		}
		return missingFieldsError(missing)
	}
	return nil
}

// normalizeGig проставляет умолчания и проверяет значения.
func normalizeGig(g *model.Gig) error {
	if g.Type == "" {
		g.Type = model.DefaultGigType
	}
	if g.Status == "" {
		g.Status = model.GigStatusUpcoming
	}
	if !g.Status.Valid() {
		return &ValidationError{Message: "invalid event status"}
	}
	if g.Time != "" {
		if _, err := time.Parse(model.TimeLayout, g.Time); err != nil {
			return &ValidationError{Message: "invalid time format"}
		}
	}
	if g.Price != nil && *g.Price < 0 {
		return &ValidationError{Message: "price must not be negative"}
	}
	if g.Capacity != nil && *g.Capacity <= 0 {
		return &ValidationError{Message: "capacity must be positive"}
	}
	return nil
}

// Nullable отличает отсутствующее поле от явного null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (s *GigService) lookupError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "event", ID: id.String()}
	}
	return s.internal(op, err)
}

func (s *GigService) internal(op string, err error) error {
	s.log.Error("event operation failed", zap.String("op", op), zap.Error(err))
	return &InternalError{Op: op, Err: err}
}
