package jsonfile

import (
	"context"
	"strings"

	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/repository"
)

// userRecord adds the password field back for the file store; the public
// User struct never serializes it.
type userRecord struct {
	user_models.User
	Password string `json:"password"`
}

// UserRepository is the file-backed implementation of repository.UserStore.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) load() ([]userRecord, error) {
	var users []userRecord
	if err := r.s.readAll(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func toUser(rec *userRecord) *user_models.User {
	u := rec.User
	u.Password = rec.Password
	return &u
}

func toRecord(u *user_models.User) userRecord {
	rec := userRecord{User: *u, Password: u.Password}
	rec.User.Password = ""
	return rec
}

// Create appends a new account, enforcing email uniqueness.
func (r *UserRepository) Create(ctx context.Context, u *user_models.User) (*user_models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			return nil, repository.ErrDuplicateEmail
		}
		if users[i].ID > maxID {
			maxID = users[i].ID
		}
	}
	u.ID = maxID + 1

	users = append(users, toRecord(u))
	if err := r.s.writeAll(usersFile, users); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID fetches one account.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user_models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return toUser(&users[i]), nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByEmail fetches one account by its unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user_models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return toUser(&users[i]), nil
		}
	}
	return nil, repository.ErrNotFound
}

// List returns every account.
func (r *UserRepository) List(ctx context.Context) ([]user_models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]user_models.User, 0, len(users))
	for i := range users {
		out = append(out, *toUser(&users[i]))
	}
	return out, nil
}

// Update overwrites an account record, keeping emails unique.
func (r *UserRepository) Update(ctx context.Context, u *user_models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != u.ID && strings.EqualFold(users[i].Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = toRecord(u)
			return r.s.writeAll(usersFile, users)
		}
	}
	return repository.ErrNotFound
}

// SetBlocked flips the blocked flag.
func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users[i].IsBlocked = blocked
			return r.s.writeAll(usersFile, users)
		}
	}
	return repository.ErrNotFound
}

// Delete removes an account.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users = append(users[:i], users[i+1:]...)
			return r.s.writeAll(usersFile, users)
		}
	}
	return repository.ErrNotFound
}
