package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// Placeholders stored when setup leaves a field blank.
const (
	DefaultDescription = "No description provided"
	DefaultCuisine     = "Not specified"
)

// ProfileInput is the setup form. Specialties is a comma-separated list.
type ProfileInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cuisine     string `json:"cuisine"`
	Specialties string `json:"specialties"`
	Skip        bool   `json:"skip"`
}

// ProfilePatch updates only the fields that are set.
type ProfilePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cuisine     *string `json:"cuisine"`
	Specialties *string `json:"specialties"`
}

// Profile returns the restaurant profile, if configured.
func (e *Engine) Profile(ctx context.Context) (*domain.RestaurantProfile, bool) {
	return e.profiles.Profile(ctx)
}

// SetupProfile stores the initial profile. Skip stores the sample profile.
func (e *Engine) SetupProfile(ctx context.Context, in ProfileInput) (domain.RestaurantProfile, error) {
	var p domain.RestaurantProfile
	if in.Skip {
		p = domain.SampleProfile()
	} else {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return p, fmt.Errorf("%w: restaurant name is required", domain.ErrInvalidInput)
		}
		p = domain.RestaurantProfile{
			Name:        name,
			Description: orDefault(in.Description, DefaultDescription),
			Cuisine:     orDefault(in.Cuisine, DefaultCuisine),
			Specialties: SplitList(in.Specialties),
		}
	}

	if err := e.profiles.SaveProfile(ctx, p); err != nil {
		return p, fmt.Errorf("saving profile: %w", err)
	}
	e.log.Info("restaurant profile set: %s (%s)", p.Name, p.Cuisine)
	return p, nil
}

// UpdateProfile merges patch into the stored profile.
func (e *Engine) UpdateProfile(ctx context.Context, patch ProfilePatch) (domain.RestaurantProfile, error) {
	cur, ok := e.profiles.Profile(ctx)
	if !ok {
		return domain.RestaurantProfile{}, domain.ErrUnconfigured
	}
	p := *cur

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return p, fmt.Errorf("%w: restaurant name cannot be empty", domain.ErrInvalidInput)
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = orDefault(*patch.Description, DefaultDescription)
	}
	if patch.Cuisine != nil {
		p.Cuisine = orDefault(*patch.Cuisine, DefaultCuisine)
	}
	if patch.Specialties != nil {
		p.Specialties = SplitList(*patch.Specialties)
	}

	if err := e.profiles.SaveProfile(ctx, p); err != nil {
		return p, fmt.Errorf("saving profile: %w", err)
	}
	e.log.Info("restaurant profile updated: %s", p.Name)
	return p, nil
}

// SplitList splits a comma-separated list, trimming entries and dropping
// empty ones: "a, b,,c " becomes [a b c].
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
