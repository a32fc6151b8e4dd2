package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/domains/author/repository"
	"bookstore-migrator/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type UserImportOptions struct {
	Limit          int
	DryRun         bool
	UpdateExisting bool
	Status         string   // status ghi cho profile mới
	Roles          []string // allow-list, rỗng = tất cả
	ForceStatus    bool
	AuthorType     string
}

type UserImportResult struct {
	Fetched               int `json:"fetched"`
	Created               int `json:"created"`
	Updated               int `json:"updated"`
	StatusBackfilled      int `json:"status_backfilled"`
	SkippedAdmin          int `json:"skipped_admin"`
	SkippedExisting       int `json:"skipped_existing"`
	SkippedNoEmail        int `json:"skipped_no_email"`
	SkippedDuplicateEmail int `json:"skipped_duplicate_email"`
	SkippedNoIdentity     int `json:"skipped_no_identity"`
}

type userImportService struct {
	source     repository.WordPressSource
	profiles   repository.ProfileStore
	identities repository.IdentityProvider
}

func NewUserImportService(
	source repository.WordPressSource,
	profiles repository.ProfileStore,
	identities repository.IdentityProvider,
) UserImportServiceInterface {
	return &userImportService{
		source:     source,
		profiles:   profiles,
		identities: identities,
	}
}

// Run imports WordPress users as author profiles. An existing admin
// profile is never touched; an existing status is kept unless the profile
// is being updated, has none yet, or ForceStatus is set.
func (s *userImportService) Run(ctx context.Context, opts UserImportOptions) (*UserImportResult, error) {
	if opts.Status == "" {
		opts.Status = model.StatusApproved
	}
	result := &UserImportResult{}

	users, err := s.source.FetchUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wordpress users: %w", err)
	}
	users = utils.Truncate(users, opts.Limit)
	result.Fetched = len(users)

	// ========== 1. FILTER + DEDUPE EMAIL ==========
	emails := utils.NewOrderedSet[string]()
	byEmail := make(map[string]model.WPUser, len(users))
	for _, u := range filterByRoles(users, opts.Roles) {
		email := model.NormalizeEmail(u.Email)
		if email == "" {
			result.SkippedNoEmail++
			log.Debug().Int64("wp_id", u.ID).Msg("Skipping user without email")
			continue
		}
		if !emails.Add(email) {
			result.SkippedDuplicateEmail++
			log.Debug().Int64("wp_id", u.ID).Str("email", email).Msg("Skipping duplicate email")
			continue
		}
		byEmail[email] = u
	}

	existing, err := s.profiles.FindByEmails(ctx, emails.Items())
	if err != nil {
		return nil, fmt.Errorf("failed to load existing profiles: %w", err)
	}

	// ========== 2. DECIDE PER USER ==========
	processed := utils.NewOrderedSet[string]()
	var upserts []model.Profile

	for _, email := range emails.Items() {
		if !processed.Add(email) {
			continue
		}
		u := byEmail[email]
		prev, exists := existing[email]

		if exists {
			handled, err := s.guardExisting(ctx, prev, email, opts, result)
			if err != nil {
				return nil, err
			}
			if handled {
				continue
			}
		}

		var prevRef *model.ExistingProfile
		if exists {
			prevRef = &prev
		}
		id, err := s.resolveIdentity(ctx, u, email, prevRef, opts.DryRun)
		if errors.Is(err, model.ErrNoIdentity) || errors.Is(err, model.ErrInvalidAuthID) {
			result.SkippedNoIdentity++
			log.Warn().Err(err).Str("email", email).Msg("Skipping user without auth identity")
			continue
		}
		if err != nil {
			return nil, err
		}

		// Email match phân biệt hoa thường; check lại theo id của identity
		if !exists && id != "" {
			byID, err := s.profiles.FindByIDs(ctx, []string{id})
			if err != nil {
				return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
			}
			if found, ok := byID[id]; ok {
				prev, exists = found, true
				handled, err := s.guardExisting(ctx, prev, email, opts, result)
				if err != nil {
					return nil, err
				}
				if handled {
					continue
				}
			}
		}

		profile := model.BuildProfile(id, u, opts.AuthorType)
		if !exists || opts.UpdateExisting || !prev.HasStatus() || opts.ForceStatus {
			status := opts.Status
			profile.Status = &status
		}

		if exists {
			result.Updated++
		} else {
			result.Created++
		}

		if opts.DryRun {
			action := "create"
			if exists {
				action = "update"
			}
			log.Info().
				Str("email", email).
				Str("name", profile.Name).
				Bool("writes_status", profile.Status != nil).
				Msgf("[dry-run] would %s profile", action)
			continue
		}
		upserts = append(upserts, profile)
	}

	// ========== 3. WRITE ==========
	if !opts.DryRun && len(upserts) > 0 {
		if err := s.profiles.Upsert(ctx, upserts); err != nil {
			return nil, fmt.Errorf("failed to upsert profiles: %w", err)
		}
	}

	return result, nil
}

// guardExisting applies the rules for a profile that already exists: an
// admin is never touched, and an author without UpdateExisting only gets
// its status written. It reports whether the user is fully handled.
func (s *userImportService) guardExisting(ctx context.Context, prev model.ExistingProfile, email string, opts UserImportOptions, result *UserImportResult) (bool, error) {
	if prev.RoleIs(model.RoleAdmin) {
		result.SkippedAdmin++
		log.Info().Str("email", email).Msg("Skipping admin profile")
		return true, nil
	}

	if prev.RoleIs(model.RoleAuthor) && !opts.UpdateExisting {
		if prev.HasStatus() && !opts.ForceStatus {
			result.SkippedExisting++
			return true, nil
		}
		if err := s.backfillStatus(ctx, prev, opts); err != nil {
			return true, err
		}
		result.StatusBackfilled++
		return true, nil
	}
	return false, nil
}

func (s *userImportService) backfillStatus(ctx context.Context, prev model.ExistingProfile, opts UserImportOptions) error {
	if opts.DryRun {
		log.Info().Str("email", prev.Email).Str("status", opts.Status).Msg("[dry-run] would set profile status")
		return nil
	}
	if err := s.profiles.UpdateStatus(ctx, prev.ID, opts.Status); err != nil {
		return fmt.Errorf("failed to backfill status for %s: %w", prev.Email, err)
	}
	return nil
}

// resolveIdentity: dùng lại id của profile nếu có, không thì tạo auth user.
// "already registered" → lookup theo email.
func (s *userImportService) resolveIdentity(ctx context.Context, u model.WPUser, email string, prev *model.ExistingProfile, dryRun bool) (string, error) {
	if prev != nil && prev.ID != "" {
		return prev.ID, nil
	}
	if dryRun {
		log.Info().Str("email", email).Msg("[dry-run] would create auth identity")
		return "", nil
	}

	id, err := s.identities.CreateUser(ctx, email, map[string]any{
		"name":       model.UserDisplayName(u),
		"wp_user_id": u.ID,
	})
	if errors.Is(err, model.ErrIdentityExists) {
		id, err = s.identities.FindUserByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		if id == "" {
			return "", fmt.Errorf("%w: %s", model.ErrNoIdentity, email)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to create auth identity for %s: %w", email, err)
	}

	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidAuthID, id)
	}
	return id, nil
}

// filterByRoles: so sánh không phân biệt hoa thường, user không có role vẫn qua
func filterByRoles(users []model.WPUser, roles []string) []model.WPUser {
	if len(roles) == 0 {
		return users
	}
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = true
	}

	out := make([]model.WPUser, 0, len(users))
	for _, u := range users {
		if len(u.Roles) == 0 {
			out = append(out, u)
			continue
		}
		for _, r := range u.Roles {
			if allowed[strings.ToLower(r)] {
				out = append(out, u)
				break
			}
		}
	}
	return out
}
