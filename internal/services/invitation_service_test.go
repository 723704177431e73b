package services

import (
	"context"
	"testing"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/config"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InvitationServiceTestSuite defines the test suite for InvitationService
type InvitationServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *InvitationService
	notifier *recordingNotifier

	org   *models.Organization
	admin *models.User
}

func (suite *InvitationServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Subscription{},
		&models.Task{},
		&models.Project{},
		&models.Invitation{},
	)
	suite.Require().NoError(err)

	cfg := &config.Config{FreeTaskLimit: 10}
	gate := billing.NewGate(cfg,
		repository.NewSubscriptionRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
	)
	policy := authz.NewEngine(gate)
	suite.notifier = &recordingNotifier{}

	suite.service = NewInvitationService(
		repository.NewInvitationRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewOrganizationRepository(suite.db),
		policy,
		suite.notifier,
	)

	suite.org = &models.Organization{Name: "Acme"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	suite.admin = &models.User{
		Name: "Boss", Email: "boss@acme.test", PasswordHash: "x",
		OrganizationID: suite.org.ID, Role: models.RoleAdmin,
	}
	suite.Require().NoError(suite.db.Create(suite.admin).Error)
}

func (suite *InvitationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *InvitationServiceTestSuite) invite(email string, role models.Role) *models.Invitation {
	invitation, err := suite.service.CreateInvitation(context.Background(), *suite.admin, CreateInvitationInput{
		Name:  "Newcomer",
		Email: email,
		Role:  role,
	})
	suite.Require().NoError(err)
	return invitation
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_Success() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	suite.Equal(suite.org.ID, invitation.OrganizationID)
	suite.NotEmpty(invitation.Token)
	suite.True(invitation.IsPending())

	suite.Require().Len(suite.notifier.invited, 1)
	suite.Equal("new@acme.test", suite.notifier.invited[0].Invitation.Email)
	suite.Equal("Acme", suite.notifier.invited[0].OrganizationName)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_NonAdminForbidden() {
	member := &models.User{
		Name: "Member", Email: "member@acme.test", PasswordHash: "x",
		OrganizationID: suite.org.ID, Role: models.RoleUser,
	}
	suite.Require().NoError(suite.db.Create(member).Error)

	_, err := suite.service.CreateInvitation(context.Background(), *member, CreateInvitationInput{
		Name: "X", Email: "x@acme.test", Role: models.RoleUser,
	})
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_ExistingUserEmail() {
	_, err := suite.service.CreateInvitation(context.Background(), *suite.admin, CreateInvitationInput{
		Name: "Dup", Email: "Boss@Acme.Test", Role: models.RoleUser,
	})
	suite.ErrorIs(err, ErrInviteeEmailTaken)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_DuplicatePending() {
	suite.invite("new@acme.test", models.RoleUser)

	_, err := suite.service.CreateInvitation(context.Background(), *suite.admin, CreateInvitationInput{
		Name: "Again", Email: "new@acme.test", Role: models.RoleViewer,
	})
	suite.ErrorIs(err, ErrInviteeEmailTaken)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_InvalidRole() {
	_, err := suite.service.CreateInvitation(context.Background(), *suite.admin, CreateInvitationInput{
		Name: "X", Email: "x@acme.test", Role: models.Role("owner"),
	})
	suite.ErrorIs(err, ErrInvalidRole)
}

func (suite *InvitationServiceTestSuite) TestGetByToken_UnknownToken() {
	_, err := suite.service.GetByToken("no-such-token")
	suite.ErrorIs(err, ErrInvitationNotFound)
}

func (suite *InvitationServiceTestSuite) TestAccept_CreatesUserWithInvitedRole() {
	invitation := suite.invite("new@acme.test", models.RoleViewer)

	user, err := suite.service.Accept(AcceptInput{
		Token:    invitation.Token,
		Password: "long-enough-secret",
	})
	suite.Require().NoError(err)
	suite.Equal("new@acme.test", user.Email)
	suite.Equal(models.RoleViewer, user.Role)
	suite.Equal(suite.org.ID, user.OrganizationID)
	suite.True(user.EmailNotifications)

	var stored models.Invitation
	suite.Require().NoError(suite.db.First(&stored, invitation.ID).Error)
	suite.NotNil(stored.AcceptedAt)
}

func (suite *InvitationServiceTestSuite) TestAccept_SecondAttemptReadsAsNotFound() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	_, err := suite.service.Accept(AcceptInput{Token: invitation.Token, Password: "long-enough-secret"})
	suite.Require().NoError(err)

	_, err = suite.service.Accept(AcceptInput{Token: invitation.Token, Password: "long-enough-secret"})
	suite.ErrorIs(err, ErrInvitationNotFound)
}

func (suite *InvitationServiceTestSuite) TestAccept_ShortPassword() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	_, err := suite.service.Accept(AcceptInput{Token: invitation.Token, Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)
}

func (suite *InvitationServiceTestSuite) TestAccept_EmailRegisteredMeanwhile() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	// Invitee signs up directly before accepting
	raced := &models.User{
		Name: "Raced", Email: "new@acme.test", PasswordHash: "x",
		OrganizationID: suite.org.ID, Role: models.RoleUser,
	}
	suite.Require().NoError(suite.db.Create(raced).Error)

	_, err := suite.service.Accept(AcceptInput{Token: invitation.Token, Password: "long-enough-secret"})
	suite.ErrorIs(err, ErrInvitationNotFound)
}

func (suite *InvitationServiceTestSuite) TestRevokeInvitation() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	suite.Require().NoError(suite.service.RevokeInvitation(*suite.admin, invitation.ID))

	_, err := suite.service.GetByToken(invitation.Token)
	suite.ErrorIs(err, ErrInvitationNotFound)

	// A revoked email can be invited again
	suite.invite("new@acme.test", models.RoleUser)
}

func (suite *InvitationServiceTestSuite) TestRevokeInvitation_CrossOrganization() {
	invitation := suite.invite("new@acme.test", models.RoleUser)

	other := &models.Organization{Name: "Rivals"}
	suite.Require().NoError(suite.db.Create(other).Error)
	foreignAdmin := models.User{
		ID: 50, Name: "Foe", OrganizationID: other.ID, Role: models.RoleAdmin,
	}

	err := suite.service.RevokeInvitation(foreignAdmin, invitation.ID)
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *InvitationServiceTestSuite) TestListPending_ExcludesAccepted() {
	first := suite.invite("a@acme.test", models.RoleUser)
	suite.invite("b@acme.test", models.RoleViewer)

	_, err := suite.service.Accept(AcceptInput{Token: first.Token, Password: "long-enough-secret"})
	suite.Require().NoError(err)

	pending, err := suite.service.ListPending(*suite.admin)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("b@acme.test", pending[0].Email)
}

func TestInvitationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationServiceTestSuite))
}
