package services

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfessionalService_OwnerAndUpdate(t *testing.T) {
	f := newFixture(t)
	seeker := f.user("Seeker")
	other := f.user("Other")
	admin := f.admin()

	p := f.professional(seeker, "Sam", "Seeker")
	require.NotNil(t, p.UserID)
	assert.Equal(t, seeker.UserID, *p.UserID)
	require.NotNil(t, p.User)
	assert.Equal(t, "Seeker", p.User.Name)

	_, err := f.svc.Professionals.Create(f.ctx, seeker, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Sam"), LastName: ptr("Again")},
	})
	requireCode(t, err, utils.CodeConflict)

	_, err = f.svc.Professionals.Update(f.ctx, other, p.ID.Hex(), ProfessionalInput{Title: ptr("Hacker")})
	requireCode(t, err, utils.CodeForbidden)

	got, err := f.svc.Professionals.Update(f.ctx, seeker, p.ID.Hex(), ProfessionalInput{
		ProfileInput: ProfileInput{Skills: []string{" go ", "", "mongo"}},
		Title:        ptr("Backend engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "mongo"}, got.Skills)
	assert.Equal(t, "Backend engineer", got.Title)

	_, err = f.svc.Professionals.Update(f.ctx, admin, p.ID.Hex(), ProfessionalInput{ExperienceYears: ptr(5)})
	require.NoError(t, err)

	list, err := f.svc.Professionals.List(f.ctx, ProfileQuery{Search: "MONGO"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestProfessionalService_Claim(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	seeker := f.user("Seeker")
	late := f.user("Late")

	_, err := f.svc.Professionals.Create(f.ctx, seeker, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("X"), LastName: ptr("Y")},
		Unclaimed:    true,
	})
	requireCode(t, err, utils.CodeForbidden)

	imported, err := f.svc.Professionals.Create(f.ctx, admin, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Imported"), LastName: ptr("Person")},
		Unclaimed:    true,
	})
	require.NoError(t, err)
	assert.Nil(t, imported.UserID)

	_, err = f.svc.Professionals.Update(f.ctx, seeker, imported.ID.Hex(), ProfessionalInput{Title: ptr("x")})
	requireCode(t, err, utils.CodeForbidden)

	claimed, err := f.svc.Professionals.Claim(f.ctx, seeker, imported.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, claimed.UserID)
	assert.Equal(t, seeker.UserID, *claimed.UserID)

	_, err = f.svc.Professionals.Claim(f.ctx, late, imported.ID.Hex())
	requireCode(t, err, utils.CodeConflict)

	_, err = f.svc.Professionals.Claim(f.ctx, late, primitive.NewObjectID().Hex())
	requireCode(t, err, utils.CodeNotFound)

	mine, err := f.svc.Professionals.Mine(f.ctx, seeker)
	require.NoError(t, err)
	assert.Equal(t, imported.ID, mine.ID)
}

func TestProfessionalService_CV(t *testing.T) {
	f := newFixture(t)
	seeker := f.user("Seeker")

	_, err := f.svc.Professionals.UploadCV(f.ctx, seeker, "cv.pdf", 3, strings.NewReader("pdf"))
	requireCode(t, err, utils.CodeNotFound)

	p := f.professional(seeker, "Sam", "Seeker")

	_, err = f.svc.Professionals.OpenCV(f.ctx, p.ID.Hex())
	requireCode(t, err, utils.CodeNotFound)

	for _, name := range []string{"cv.exe", "cv.txt", "cv"} {
		_, err = f.svc.Professionals.UploadCV(f.ctx, seeker, name, 3, strings.NewReader("abc"))
		requireCode(t, err, utils.CodeInvalidArgument)
	}
	_, err = f.svc.Professionals.UploadCV(f.ctx, seeker, "huge.pdf", MaxCVSize+1, strings.NewReader("abc"))
	requireCode(t, err, utils.CodeInvalidArgument)

	content := []byte("PK\x03\x04 docx bytes \x00\x01\x02")
	got, err := f.svc.Professionals.UploadCV(f.ctx, seeker, "My Resume.docx", int64(len(content)), strings.NewReader(string(content)))
	require.NoError(t, err)
	assert.Equal(t, "My Resume.docx", got.CVOriginalName)
	assert.True(t, strings.HasPrefix(got.CV, "cv/"+p.ID.Hex()+"/"), got.CV)

	dl, err := f.svc.Professionals.OpenCV(f.ctx, p.ID.Hex())
	require.NoError(t, err)
	defer dl.Body.Close()
	b, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, content, b)
	assert.Equal(t, "My Resume.docx", dl.Name)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", dl.ContentType)

	again, err := f.svc.Professionals.UploadCV(f.ctx, seeker, "v2.pdf", 4, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.NotEqual(t, got.CV, again.CV)
	_, err = f.store.Open(f.ctx, got.CV)
	assert.ErrorIs(t, err, utils.ErrNotFound, "replaced CV is removed from storage")
	rc, err := f.store.Open(f.ctx, again.CV)
	require.NoError(t, err)
	rc.Close()
}

func TestProfessionalService_CVFileMissing(t *testing.T) {
	f := newFixture(t)
	seeker := f.user("Seeker")
	p := f.professional(seeker, "Sam", "Seeker")

	require.NoError(t, f.repos.Professionals.SetCV(f.ctx, p.ID, "cv/gone/file.pdf", "file.pdf", now()))

	_, err := f.svc.Professionals.OpenCV(f.ctx, p.ID.Hex())
	requireCode(t, err, utils.CodeNotFound)
}

func TestTraineeService_CreateUpdate(t *testing.T) {
	f := newFixture(t)
	student := f.user("Student")
	other := f.user("Other")

	tr, err := f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Dent")},
		Institution:  ptr("ITB"),
	})
	require.NoError(t, err)
	assert.Equal(t, student.UserID, tr.UserID)
	assert.Equal(t, student.Email, tr.Email)

	_, err = f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Two")},
	})
	requireCode(t, err, utils.CodeConflict)

	_, err = f.svc.Trainees.Update(f.ctx, other, tr.ID.Hex(), TraineeInput{FieldOfStudy: ptr("Law")})
	requireCode(t, err, utils.CodeForbidden)

	got, err := f.svc.Trainees.Update(f.ctx, student, tr.ID.Hex(), TraineeInput{FieldOfStudy: ptr("Informatics")})
	require.NoError(t, err)
	assert.Equal(t, "Informatics", got.FieldOfStudy)
	assert.Equal(t, "ITB", got.Institution)

	_, err = f.svc.Trainees.Update(f.ctx, student, tr.ID.Hex(), TraineeInput{
		ProfileInput: ProfileInput{ProfessionID: ptr("zzz")},
	})
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestSeekerProfiles_OnePerUser(t *testing.T) {
	f := newFixture(t)
	dev := f.profession("Developer")
	boss := f.user("Boss")
	f.company(boss, "Acme")
	j := f.job(boss, "Go engineer", dev)
	admin := f.admin()

	seeker := f.user("Seeker")
	f.professional(seeker, "Sam", "Seeker")
	_, err := f.svc.Trainees.Create(f.ctx, seeker, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Sam"), LastName: ptr("Student")},
	})
	requireCode(t, err, utils.CodeConflict)

	student := f.user("Student")
	tr, err := f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Dent")},
	})
	require.NoError(t, err)
	_, err = f.svc.Professionals.Create(f.ctx, student, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Pro")},
	})
	requireCode(t, err, utils.CodeConflict)

	imported, err := f.svc.Professionals.Create(f.ctx, admin, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Imported"), LastName: ptr("Person")},
		Unclaimed:    true,
	})
	require.NoError(t, err)
	_, err = f.svc.Professionals.Claim(f.ctx, student, imported.ID.Hex())
	requireCode(t, err, utils.CodeConflict)

	app, err := f.svc.Jobs.Apply(f.ctx, student, ApplyInput{JobID: j.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicantTrainee, app.ApplicantType)
	assert.Equal(t, tr.ID, app.ApplicantID)

	mine, err := f.svc.Jobs.MyApplications(f.ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, j.ID, mine[0].Job.ID)

	me, err := f.svc.Auth.Me(f.ctx, student)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainee, me.Role)
	assert.Nil(t, me.ProfessionalID)
}

func TestProfiles_ProfessionMustExist(t *testing.T) {
	f := newFixture(t)
	dev := f.profession("Developer")
	unknown := primitive.NewObjectID().Hex()

	seeker := f.user("Seeker")
	_, err := f.svc.Professionals.Create(f.ctx, seeker, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Sam"), LastName: ptr("Seeker"), ProfessionID: &unknown},
	})
	requireCode(t, err, utils.CodeInvalidArgument)

	p, err := f.svc.Professionals.Create(f.ctx, seeker, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: ptr("Sam"), LastName: ptr("Seeker"), ProfessionID: ptr(dev.ID.Hex())},
	})
	require.NoError(t, err)
	require.NotNil(t, p.Profession)
	assert.Equal(t, "Developer", p.Profession.Name)

	student := f.user("Student")
	_, err = f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Dent"), ProfessionID: &unknown},
	})
	requireCode(t, err, utils.CodeInvalidArgument)

	tr, err := f.svc.Trainees.Create(f.ctx, student, TraineeInput{
		ProfileInput: ProfileInput{FirstName: ptr("Stu"), LastName: ptr("Dent")},
	})
	require.NoError(t, err)
	_, err = f.svc.Trainees.Update(f.ctx, student, tr.ID.Hex(), TraineeInput{
		ProfileInput: ProfileInput{ProfessionID: &unknown},
	})
	requireCode(t, err, utils.CodeInvalidArgument)

	got, err := f.svc.Trainees.Update(f.ctx, student, tr.ID.Hex(), TraineeInput{
		ProfileInput: ProfileInput{ProfessionID: ptr(dev.ID.Hex())},
	})
	require.NoError(t, err)
	require.NotNil(t, got.ProfessionID)
	assert.Equal(t, dev.ID, *got.ProfessionID)
}
