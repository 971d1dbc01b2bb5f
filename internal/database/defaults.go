package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// SeedDefaults ensures baseline staff accounts exist for new databases so
// the dashboards have something to schedule against. It is idempotent and
// safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	userRepo := repository.NewUserRepo(db)
	existing, err := userRepo.List(ctx, repository.UserFilters{})
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []repository.User{
		{Role: repository.RoleDoctor, FullName: "Dr. Asha Rao", Email: "asha.rao@dermadesk.local"},
		{Role: repository.RoleAssistant, FullName: "Sam Whitfield", Email: "sam.whitfield@dermadesk.local"},
	}
	for _, u := range defaults {
		u.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("user:"+u.Email)).String()
		if err := userRepo.Upsert(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
