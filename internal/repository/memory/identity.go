package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type organizationRepository struct {
	*table[model.Organization, *model.Organization]
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if _, taken := r.first(func(o *model.Organization) bool { return o.Slug == org.Slug }); taken {
		return repository.ErrDuplicate
	}
	r.put(ctx, org)
	return nil
}

func (r *organizationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, ok := r.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return org, nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	org, ok := r.first(func(o *model.Organization) bool { return o.Slug == slug })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return org, nil
}

func (r *organizationRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Organization, error) {
	set := idSet(ids)
	return r.scan(func(o *model.Organization) bool {
		_, ok := set[o.ID]
		return ok
	}), nil
}

func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if !r.exists(org.ID) {
		return repository.ErrNotFound
	}
	r.put(ctx, org)
	return nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	orgs := r.scan(nil)
	sort.SliceStable(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

type userRepository struct {
	*table[model.User, *model.User]
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if _, taken := r.first(func(u *model.User) bool { return u.Subject == user.Subject }); taken {
		return repository.ErrDuplicate
	}
	r.put(ctx, user)
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	user, ok := r.first(func(u *model.User) bool { return u.Subject == subject })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := r.first(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *userRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	set := idSet(ids)
	return r.scan(func(u *model.User) bool {
		_, ok := set[u.ID]
		return ok
	}), nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if !r.exists(user.ID) {
		return repository.ErrNotFound
	}
	r.put(ctx, user)
	return nil
}

type memberRepository struct {
	orgTable[model.OrganizationMember, *model.OrganizationMember]
}

func (r *memberRepository) Create(ctx context.Context, member *model.OrganizationMember) error {
	dup := r.inOrg(member.OrganizationID, func(m *model.OrganizationMember) bool { return m.UserID == member.UserID })
	if len(dup) > 0 {
		return repository.ErrDuplicate
	}
	r.put(ctx, member)
	return nil
}

func (r *memberRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.OrganizationMember, error) {
	return r.getIn(orgID, id)
}

func (r *memberRepository) GetByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error) {
	rows := r.inOrg(orgID, func(m *model.OrganizationMember) bool { return m.UserID == userID })
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0], nil
}

func (r *memberRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationMember, error) {
	return r.inOrg(orgID, nil), nil
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.OrganizationMember, error) {
	return r.scan(func(m *model.OrganizationMember) bool { return m.UserID == userID }), nil
}

func (r *memberRepository) Update(ctx context.Context, member *model.OrganizationMember) error {
	return r.updateIn(ctx, member)
}

func (r *memberRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

type subscriptionRepository struct {
	orgTable[model.Subscription, *model.Subscription]
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	if len(r.inOrg(sub.OrganizationID, nil)) > 0 {
		return repository.ErrDuplicate
	}
	r.put(ctx, sub)
	return nil
}

func (r *subscriptionRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*model.Subscription, error) {
	rows := r.inOrg(orgID, nil)
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0], nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) error {
	return r.updateIn(ctx, sub)
}

type outboxRepository struct {
	*table[model.OutboxEvent, *model.OutboxEvent]
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}
	r.put(ctx, event)
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	events := r.scan(func(e *model.OutboxEvent) bool { return e.Status == model.OutboxStatusPending })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	event, ok := r.get(id)
	if !ok {
		return repository.ErrNotFound
	}
	event.Status = status
	event.ErrorMessage = errMsg
	now := time.Now().UTC()
	switch status {
	case model.OutboxStatusFailed:
		event.RetryCount++
	case model.OutboxStatusProcessed:
		event.ProcessedAt = &now
	}
	event.UpdatedAt = now
	r.put(ctx, event)
	return nil
}
