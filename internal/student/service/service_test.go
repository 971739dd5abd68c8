package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	institutionmodels "schoolgate/internal/institution/models"
	institutionstore "schoolgate/internal/institution/store"
	studentstore "schoolgate/internal/student/store"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/requestcontext"
)

type StudentServiceSuite struct {
	suite.Suite
	ctx context.Context

	institutions *institutionstore.InMemory
	students     *studentstore.InMemory
	service      *Service

	institutionID id.InstitutionID
}

func TestStudentServiceSuite(t *testing.T) {
	suite.Run(t, new(StudentServiceSuite))
}

func (s *StudentServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	s.institutions = institutionstore.NewInMemory()
	s.students = studentstore.NewInMemory()
	s.service = New(s.students, s.institutions)

	s.institutionID = id.InstitutionID(uuid.New())
	institution, err := institutionmodels.NewInstitution(
		s.institutionID, "Riverside High", "12 River Rd", nil, nil, "", time.Now())
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.institutions.Create(s.ctx, institution))
}

func (s *StudentServiceSuite) TestRegisterIssuesCredential() {
	student, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "Ada Lovelace",
		InstitutionID: s.institutionID,
		DeviceID:      "tablet-001",
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), student)

	assert.False(s.T(), student.ID.IsZero())
	assert.Equal(s.T(), "Ada Lovelace", student.Name)
	assert.Equal(s.T(), s.institutionID, student.InstitutionID)
	assert.True(s.T(), student.Active)
	assert.NotEmpty(s.T(), student.Credential)

	s.Run("record is retrievable with the same credential", func() {
		fetched, err := s.service.Get(s.ctx, student.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), student.Credential, fetched.Credential)
	})
}

func (s *StudentServiceSuite) TestRegisterWithoutDevice() {
	first, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "Ada Lovelace",
		InstitutionID: s.institutionID,
	})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), first.Credential)

	// No device binding means no uniqueness constraint to trip.
	second, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "Grace Hopper",
		InstitutionID: s.institutionID,
	})
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), first.Credential, second.Credential)
}

func (s *StudentServiceSuite) TestRegisterDuplicateDevice() {
	_, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "Ada Lovelace",
		InstitutionID: s.institutionID,
		DeviceID:      "tablet-001",
	})
	require.NoError(s.T(), err)

	_, err = s.service.Register(s.ctx, RegisterRequest{
		Name:          "Grace Hopper",
		InstitutionID: s.institutionID,
		DeviceID:      "tablet-001",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeConflict))
}

func (s *StudentServiceSuite) TestRegisterUnknownInstitution() {
	_, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "Ada Lovelace",
		InstitutionID: id.InstitutionID(uuid.New()),
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *StudentServiceSuite) TestRegisterEmptyName() {
	_, err := s.service.Register(s.ctx, RegisterRequest{
		Name:          "   ",
		InstitutionID: s.institutionID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *StudentServiceSuite) TestGetUnknownStudent() {
	_, err := s.service.Get(s.ctx, id.StudentID(uuid.New()))
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeNotFound))
}
