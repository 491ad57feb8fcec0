// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
)

// MemoryRepository is an in-process Repository used by tests and local tooling.
type MemoryRepository struct {
	mu         sync.RWMutex
	members    map[string]*Member
	profiles   map[string][]*Profile
	attributes map[string]map[string]string
	roles      map[string][]string
	err        error
}

// NewMemoryRepository creates an empty [MemoryRepository].
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		members:    make(map[string]*Member),
		profiles:   make(map[string][]*Profile),
		attributes: make(map[string]map[string]string),
		roles:      make(map[string][]string),
	}
}

// PutMember stores or replaces an account.
func (repository *MemoryRepository) PutMember(member *Member) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.members[member.ID] = member
}

// PutProfile appends a profile to its owner.
func (repository *MemoryRepository) PutProfile(profile *Profile) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.profiles[profile.UserID] = append(repository.profiles[profile.UserID], profile)
}

// PutAttribute sets one named flag.
func (repository *MemoryRepository) PutAttribute(userID, name, value string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.attributes[userID] == nil {
		repository.attributes[userID] = make(map[string]string)
	}
	repository.attributes[userID][name] = value
}

// PutRole grants an additional role.
func (repository *MemoryRepository) PutRole(userID, role string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.roles[userID] = append(repository.roles[userID], role)
}

// Fail makes every subsequent call return err (nil restores normal behavior).
func (repository *MemoryRepository) Fail(err error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.err = err
}

// FindByID implements Repository.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Member, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	if repository.err != nil {
		return nil, repository.err
	}
	member, ok := repository.members[id]
	if !ok {
		return nil, apperr.NotFound("Member")
	}
	copied := *member
	return &copied, nil
}

// FindProfiles implements Repository.
func (repository *MemoryRepository) FindProfiles(_ context.Context, userID, profileType string) ([]*Profile, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	if repository.err != nil {
		return nil, repository.err
	}
	var profiles []*Profile
	for _, profile := range repository.profiles[userID] {
		if profile.Type == profileType {
			copied := *profile
			profiles = append(profiles, &copied)
		}
	}
	return profiles, nil
}

// Attributes implements Repository.
func (repository *MemoryRepository) Attributes(_ context.Context, userID string) (map[string]string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	if repository.err != nil {
		return nil, repository.err
	}
	attributes := make(map[string]string, len(repository.attributes[userID]))
	for name, value := range repository.attributes[userID] {
		attributes[name] = value
	}
	return attributes, nil
}

// Roles implements Repository.
func (repository *MemoryRepository) Roles(_ context.Context, userID string) ([]string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	if repository.err != nil {
		return nil, repository.err
	}
	var roles []string
	if member, ok := repository.members[userID]; ok && member.Role != "" {
		roles = append(roles, member.Role)
	}
	for _, role := range repository.roles[userID] {
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}
