package service

import (
	"context"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/pkg/jwt"
)

// =====================================================
// IN-MEMORY FAKE
// =====================================================

type fakeUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return model.ErrIdentityTaken
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	out := make(map[primitive.ObjectID]*model.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) IdentityTaken(ctx context.Context, excludeID primitive.ObjectID, username, email string) (bool, error) {
	for id, u := range f.users {
		if id == excludeID {
			continue
		}
		if username != "" && u.Username == username {
			return true, nil
		}
		if email != "" && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newService() (UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	manager := jwt.NewManager("test-secret", 60)
	return NewUserService(repo, manager), repo
}

func validRegister() model.RegisterRequest {
	return model.RegisterRequest{
		Username: "estraven",
		Email:    "estraven@example.com",
		Password: "winter-is-long",
	}
}

// =====================================================
// REGISTER
// =====================================================

func TestRegisterHashesPasswordAndIssuesTokens(t *testing.T) {
	svc, repo := newService()

	auth, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "estraven", auth.User.Username)
	assert.Equal(t, model.RoleUser, auth.User.Role)

	stored, err := repo.GetByID(context.Background(), auth.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "winter-is-long", stored.PasswordHash, "password must never be stored in the clear")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	require.Error(t, err)

	var ue *model.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.ErrCodeIdentityTaken, ue.Code)
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newService()

	req := validRegister()
	req.Username = "ab"   // below minimum
	req.Password = "shrt" // below minimum

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "username")
	assert.Contains(t, verrs, "password")
	assert.Empty(t, repo.users)
}

// =====================================================
// LOGIN
// =====================================================

func TestLoginSuccess(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	auth, err := svc.Login(ctx, model.LoginRequest{
		Email:    "estraven@example.com",
		Password: "winter-is-long",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, errWrongPass := svc.Login(ctx, model.LoginRequest{
		Email:    "estraven@example.com",
		Password: "wrong-password",
	})
	_, errUnknown := svc.Login(ctx, model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-here",
	})

	var ue1, ue2 *model.UserError
	require.ErrorAs(t, errWrongPass, &ue1)
	require.ErrorAs(t, errUnknown, &ue2)
	assert.Equal(t, model.ErrCodeInvalidCredentials, ue1.Code)
	assert.Equal(t, ue1.Code, ue2.Code, "both failures must be indistinguishable")
}

// =====================================================
// PROFILE
// =====================================================

func TestUpdateProfileByAnotherUserForbidden(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	bio := "not mine to write"
	_, err = svc.UpdateProfile(ctx, primitive.NewObjectID(), auth.User.ID, model.UpdateProfileRequest{Bio: &bio})
	require.Error(t, err)

	var ue *model.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.ErrCodeForbidden, ue.Code)
}

func TestUpdateProfileTakenIdentityConflicts(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	other, err := svc.Register(ctx, model.RegisterRequest{
		Username: "genly",
		Email:    "genly@example.com",
		Password: "an-envoy-alone",
	})
	require.NoError(t, err)

	taken := "estraven"
	_, err = svc.UpdateProfile(ctx, other.User.ID, other.User.ID, model.UpdateProfileRequest{Username: &taken})
	require.Error(t, err)

	var ue *model.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.ErrCodeIdentityTaken, ue.Code)
}

func TestUpdateProfileKeepingOwnIdentityIsNotAConflict(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	sameUsername := "estraven"
	bio := "Prime Minister of Karhide"
	profile, err := svc.UpdateProfile(ctx, auth.User.ID, auth.User.ID, model.UpdateProfileRequest{
		Username: &sameUsername,
		Bio:      &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, bio, profile.Bio)

	stored, err := repo.GetByID(ctx, auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, stored.Bio)
}

func TestGetPublicProfileHidesCredentials(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	profile, err := svc.GetPublicProfile(ctx, auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "estraven", profile.Username)
}

func TestGetPublicProfileMissing(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetPublicProfile(context.Background(), primitive.NewObjectID())
	require.Error(t, err)

	var ue *model.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.ErrCodeUserNotFound, ue.Code)
}
