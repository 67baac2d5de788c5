package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Ana", Email: " Ana@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, models.RoleUser, sess.User.Role)
	assert.NotEqual(t, "secret123", sess.User.PasswordHash)

	login, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "ANA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, login.User.ID)

	tm, err := auth.NewTokenManager("test-secret", 0)
	require.NoError(t, err)
	id, err := tm.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, id.Role)
	assert.Equal(t, sess.User.ID, id.UserID)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	f := newFixture(t)
	f.user("Ana")

	_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Other", Email: "ana@example.com", Password: "secret123"})
	requireCode(t, err, utils.CodeConflict)
	assert.Equal(t, 400, utils.HTTPStatus(err))

	_, err = f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "123"})
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Bo", Email: "not-an-email", Password: "secret123"})
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	f.user("Ana")

	_, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "ana@example.com", Password: "wrong-pass"})
	requireCode(t, err, utils.CodeUnauthorized)

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "ghost@example.com", Password: "secret123"})
	requireCode(t, err, utils.CodeUnauthorized)
}

func TestAuthService_EffectiveRole(t *testing.T) {
	f := newFixture(t)
	seeker := f.user("Seeker")
	student := f.user("Student")
	plain := f.user("Plain")

	f.professional(seeker, "Sam", "Seeker")
	_, err := f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Dent")},
	})
	require.NoError(t, err)

	me, err := f.svc.Auth.Me(f.ctx, seeker)
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessional, me.Role)
	assert.NotNil(t, me.ProfessionalID)

	me, err = f.svc.Auth.Me(f.ctx, student)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainee, me.Role)
	assert.NotNil(t, me.TraineeID)

	me, err = f.svc.Auth.Me(f.ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, me.Role)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newFixture(t)
	boss := f.user("Boss")
	f.company(boss, "Acme")

	id, err := f.svc.Auth.Refresh(f.ctx, boss)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompany, id.Role)

	admin := f.admin()
	_, err = f.svc.Users.Update(f.ctx, admin, boss.UserID.Hex(), UserUpdate{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.svc.Auth.Refresh(f.ctx, boss)
	requireCode(t, err, utils.CodeUnauthorized)
}

func TestUserService_Permissions(t *testing.T) {
	f := newFixture(t)
	ana := f.user("Ana")
	bo := f.user("Bo")
	admin := f.admin()

	_, err := f.svc.Users.Get(f.ctx, ana, bo.UserID.Hex())
	requireCode(t, err, utils.CodeForbidden)

	u, err := f.svc.Users.Get(f.ctx, admin, bo.UserID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Bo", u.Name)

	_, err = f.svc.Users.Update(f.ctx, ana, ana.UserID.Hex(), UserUpdate{Role: ptr(models.RoleAdmin)})
	requireCode(t, err, utils.CodeForbidden)

	u, err = f.svc.Users.Update(f.ctx, ana, ana.UserID.Hex(), UserUpdate{Name: ptr("Ana Maria"), Password: ptr("newsecret")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.NoError(t, utils.CheckPassword(u.PasswordHash, "newsecret"))

	_, err = f.svc.Users.Update(f.ctx, ana, ana.UserID.Hex(), UserUpdate{Email: ptr("bo@example.com")})
	requireCode(t, err, utils.CodeConflict)

	list, err := f.svc.Users.List(f.ctx, "admin")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, admin.UserID, list[0].ID)
}
