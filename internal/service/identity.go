package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"

	"gorm.io/gorm"

	apperrors "mcrauth/internal/errors"
	"mcrauth/internal/model"
	"mcrauth/internal/oauth"
	"mcrauth/internal/repository"
)

const (
	uidMin = 100000000
	uidMax = 999999999
	// maxUIDAttempts bounds the rejection-sampling loop. The keyspace holds
	// nine hundred million values, so hitting this limit means something is
	// badly wrong, not that the space is actually full.
	maxUIDAttempts = 100
)

var uidPattern = regexp.MustCompile(`^[1-9][0-9]{8}$`)

// IdentityResolver unifies provider profiles with local user records.
type IdentityResolver struct {
	users repository.UserRepository
}

// NewIdentityResolver builds a resolver over the user repository.
func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// ResolveOrCreate finds the user matching the provider email, auto-provisioning
// one with a fresh uid and empty nickname on first login. The returned bool is
// the is_new_user flag: true while the nickname is still empty, so a user who
// never completed profile setup re-enters it on their next login.
func (r *IdentityResolver) ResolveOrCreate(ctx context.Context, profile *oauth.Profile) (*model.User, bool, error) {
	user, err := r.users.FindByEmail(ctx, profile.Email)
	if err == nil {
		return user, user.Nickname == "", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup user by email: %w", err)
	}

	uid, err := r.generateUniqueUID(ctx)
	if err != nil {
		return nil, false, err
	}

	email := profile.Email
	user = &model.User{
		UID:      &uid,
		Email:    &email,
		Nickname: "",
		IsActive: true,
	}
	if err := r.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateIdentity) {
			// A concurrent first login won the insert; take its row.
			if existing, ferr := r.users.FindByEmail(ctx, profile.Email); ferr == nil {
				return existing, existing.Nickname == "", nil
			}
		}
		return nil, false, err
	}
	return user, true, nil
}

// generateUniqueUID draws uniform random 9-digit values until one is unused.
// Only a repository collision triggers a retry; malformed values and storage
// faults abort.
func (r *IdentityResolver) generateUniqueUID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxUIDAttempts; attempt++ {
		uid := strconv.Itoa(uidMin + rand.IntN(uidMax-uidMin+1))
		if !uidPattern.MatchString(uid) {
			return "", fmt.Errorf("generated malformed uid %q", uid)
		}

		_, err := r.users.FindByUID(ctx, uid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uid, nil
		}
		if err != nil {
			return "", fmt.Errorf("check uid collision: %w", err)
		}
		// collision, draw again
	}
	return "", apperrors.ErrIdentifierSpaceExhausted
}
