package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fefu-lab/course-service/internal/validator"
)

func newTestProfileService(repo *memRepo) ProfileService {
	return NewProfileService(repo, validator.New(), testLogger())
}

func TestGetPublic(t *testing.T) {
	repo := newMemRepo()
	svc := newTestProfileService(repo)
	ctx := context.Background()

	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	got, err := svc.GetPublic(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetPublic() error = %v", err)
	}
	if got.ID != profile.ID {
		t.Errorf("GetPublic() = profile %d, want %d", got.ID, profile.ID)
	}

	if _, err := svc.GetPublic(ctx, 404); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown profile error = %v, want ErrProfileNotFound", err)
	}

	// Deactivated profiles are indistinguishable from missing ones.
	profile.IsActive = false
	if err := repo.Profile().Update(ctx, profile); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := svc.GetPublic(ctx, profile.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("inactive profile error = %v, want ErrProfileNotFound", err)
	}
}

func TestUpdateSelf_DualWrite(t *testing.T) {
	repo := newMemRepo()
	identity := newTestIdentityService(repo)
	svc := newTestProfileService(repo)
	ctx := context.Background()

	user, err := identity.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	firstName := "Пётр"
	email := "p.smirnov@fefu.ru"
	bio := "студент третьего курса"
	updated, err := svc.UpdateSelf(ctx, user.ID, &ProfileUpdateRequest{
		FirstName: &firstName,
		Email:     &email,
		Bio:       &bio,
	})
	if err != nil {
		t.Fatalf("UpdateSelf() error = %v", err)
	}
	if updated.FirstName != firstName || updated.Email != email || updated.Bio != bio {
		t.Errorf("profile not updated: %+v", updated)
	}

	// The account record mirrors the shared fields.
	account, err := repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if account.FirstName != firstName {
		t.Errorf("account first name = %q, want %q", account.FirstName, firstName)
	}
	if account.Email != email {
		t.Errorf("account email = %q, want %q", account.Email, email)
	}
}

func TestUpdateSelf_EmailCollision(t *testing.T) {
	repo := newMemRepo()
	identity := newTestIdentityService(repo)
	svc := newTestProfileService(repo)
	ctx := context.Background()

	first, err := identity.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	otherReq := validRegister()
	otherReq.Email = "other@fefu.ru"
	if _, err := identity.Register(ctx, otherReq); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	taken := "other@fefu.ru"
	_, err = svc.UpdateSelf(ctx, first.ID, &ProfileUpdateRequest{Email: &taken})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("UpdateSelf() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestUpdateSelf_NoProfile(t *testing.T) {
	repo := newMemRepo()
	svc := newTestProfileService(repo)

	name := "Иван"
	_, err := svc.UpdateSelf(context.Background(), 404, &ProfileUpdateRequest{FirstName: &name})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("UpdateSelf() error = %v, want ErrProfileNotFound", err)
	}
}
