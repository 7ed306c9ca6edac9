package account

import (
	"context"
	"time"

	"github.com/protomem/medicall/internal/model"
)

type UserStore interface {
	Get(ctx context.Context, id model.ID) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	Insert(ctx context.Context, dto model.InsertUserDTO) (model.ID, error)
	Update(ctx context.Context, id model.ID, dto model.UpdateUserDTO) error
}

type WorkerProfileStore interface {
	Find(ctx context.Context, filter model.WorkerFilter, opts model.FindOptions) ([]model.WorkerProfile, error)
	GetByUser(ctx context.Context, userID model.ID) (model.WorkerProfile, error)
	Insert(ctx context.Context, dto model.InsertWorkerProfileDTO) (model.ID, error)
	Update(ctx context.Context, userID model.ID, dto model.UpdateWorkerProfileDTO) error
}

type HospitalProfileStore interface {
	Find(ctx context.Context, filter model.HospitalFilter, opts model.FindOptions) ([]model.HospitalProfile, error)
	GetByUser(ctx context.Context, userID model.ID) (model.HospitalProfile, error)
	Insert(ctx context.Context, dto model.InsertHospitalProfileDTO) (model.ID, error)
	Update(ctx context.Context, userID model.ID, dto model.UpdateHospitalProfileDTO) error
}

type TokenStore interface {
	Revoke(ctx context.Context, jti string, userID model.ID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// PictureStorage persists an uploaded image under key and returns the URL it is served from.
type PictureStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
