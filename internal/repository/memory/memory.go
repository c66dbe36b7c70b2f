package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/repository"
)

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.RoleRepository = (*RoleRepository)(nil)
)

// UserRepository keeps users in memory. It backs local runs without a
// database and the handler and service tests.
type UserRepository struct {
	mu      sync.Mutex
	nextUID int64
	users   map[int64]*domain.User

	// FailWrites makes password updates report zero affected rows.
	FailWrites bool
	// LookupErr is returned by contact lookups when set.
	LookupErr error
}

// NewUserRepository seeds the repository. Seeds without a UID are numbered in order.
func NewUserRepository(seed ...domain.User) *UserRepository {
	r := &UserRepository{users: make(map[int64]*domain.User), nextUID: 1}
	for i := range seed {
		u := seed[i]
		if u.UID == 0 {
			u.UID = r.nextUID
		}
		if u.UID >= r.nextUID {
			r.nextUID = u.UID + 1
		}
		r.users[u.UID] = &u
	}
	return r
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	user.UID = r.nextUID
	r.nextUID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.UID] = &cp
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.UID]
	if !ok {
		return pgx.ErrNoRows
	}
	for uid, u := range r.users {
		if uid != user.UID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	cp := *user
	cp.PasswordHash = existing.PasswordHash
	r.users[user.UID] = &cp
	return nil
}

func (r *UserRepository) Delete(_ context.Context, uid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[uid]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, uid)
	return nil
}

func (r *UserRepository) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *UserRepository) GetByUID(_ context.Context, uid int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.PhoneNumber == phone })
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LookupErr != nil {
		return nil, r.LookupErr
	}
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, uid int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok || r.FailWrites {
		return pgx.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

// PasswordHash returns the stored hash for uid, or "" when absent.
func (r *UserRepository) PasswordHash(uid int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		return u.PasswordHash
	}
	return ""
}

// RoleRepository keeps the seeded roles and assignments in memory.
type RoleRepository struct {
	mu          sync.Mutex
	roles       map[int64]domain.Role
	assignments map[domain.RoleAssignment]struct{}
	users       *UserRepository
}

// NewRoleRepository seeds the five institute roles with IDs 1 to 5.
func NewRoleRepository(users *UserRepository) *RoleRepository {
	return &RoleRepository{
		roles: map[int64]domain.Role{
			1: {ID: 1, Name: domain.RoleAdmin},
			2: {ID: 2, Name: domain.RoleInstructor},
			3: {ID: 3, Name: domain.RoleStudent},
			4: {ID: 4, Name: domain.RoleDonor},
			5: {ID: 5, Name: domain.RoleParent},
		},
		assignments: make(map[domain.RoleAssignment]struct{}),
		users:       users,
	}
}

func (r *RoleRepository) List(context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) GetByID(_ context.Context, roleID int64) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r *RoleRepository) RolesForUser(_ context.Context, uid int64) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0)
	for a := range r.assignments {
		if a.UID == uid {
			out = append(out, r.roles[a.RoleID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) UsersWithRole(ctx context.Context, roleID int64) ([]domain.User, error) {
	r.mu.Lock()
	var uids []int64
	for a := range r.assignments {
		if a.RoleID == roleID {
			uids = append(uids, a.UID)
		}
	}
	r.mu.Unlock()
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	out := make([]domain.User, 0, len(uids))
	for _, uid := range uids {
		u, err := r.users.GetByUID(ctx, uid)
		if errors.Is(err, pgx.ErrNoRows) {
			// deleted users drop out, as with ON DELETE CASCADE
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *RoleRepository) Assign(_ context.Context, a domain.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.assignments[a]; dup {
		return repository.ErrDuplicate
	}
	r.assignments[a] = struct{}{}
	return nil
}

func (r *RoleRepository) Remove(_ context.Context, a domain.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[a]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.assignments, a)
	return nil
}
