package memstore

import (
	"context"

	"github.com/protomem/medicall/internal/model"
)

type UserStore struct{ s *Store }

func (u *UserStore) Get(_ context.Context, id model.ID) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.User{}, model.NewError("user", model.ErrNotFound)
	}
	return user, nil
}

func (u *UserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.NewError("user", model.ErrNotFound)
}

func (u *UserStore) Insert(_ context.Context, dto model.InsertUserDTO) (model.ID, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.Username == dto.Username || user.Email == dto.Email {
			return 0, model.NewError("user", model.ErrExists)
		}
	}

	now := u.s.now()
	user := model.User{
		ID:           u.s.next("users"),
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     dto.Username,
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: dto.PasswordHash,
		Role:         dto.Role,
		IsVerified:   dto.IsVerified,
		IsActive:     true,
		PhoneNumber:  dto.PhoneNumber,
		Address:      dto.Address,
		City:         dto.City,
		State:        dto.State,
		ZipCode:      dto.ZipCode,
		Country:      dto.Country,
	}
	u.s.users[user.ID] = user

	return user.ID, nil
}

func (u *UserStore) Update(_ context.Context, id model.ID, dto model.UpdateUserDTO) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.NewError("user", model.ErrNotFound)
	}

	if dto.Email != nil {
		for _, other := range u.s.users {
			if other.ID != id && other.Email == *dto.Email {
				return model.NewError("user", model.ErrExists)
			}
		}
		user.Email = *dto.Email
	}
	setIfPresent(&user.FirstName, dto.FirstName)
	setIfPresent(&user.LastName, dto.LastName)
	setPtrIfPresent(&user.PhoneNumber, dto.PhoneNumber)
	setPtrIfPresent(&user.ProfilePicture, dto.ProfilePicture)
	setPtrIfPresent(&user.Address, dto.Address)
	setPtrIfPresent(&user.City, dto.City)
	setPtrIfPresent(&user.State, dto.State)
	setPtrIfPresent(&user.ZipCode, dto.ZipCode)
	setPtrIfPresent(&user.Country, dto.Country)
	user.UpdatedAt = u.s.now()

	u.s.users[id] = user

	return nil
}

// SetActive toggles the account flag; administrative action only.
func (u *UserStore) SetActive(_ context.Context, id model.ID, active bool) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.NewError("user", model.ErrNotFound)
	}
	user.IsActive = active
	u.s.users[id] = user

	return nil
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIfPresent[T any](dst **T, v *T) {
	if v != nil {
		*dst = ptr(*v)
	}
}
