package services

import (
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

// ProjectServiceTestSuite defines the test suite for ProjectService
type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService

	org   *models.Organization
	admin *models.User
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Subscription{},
		&models.Task{},
		&models.Project{},
		&models.ActivityLogEntry{},
	)
	suite.Require().NoError(err)

	cfg := &config.Config{
		ProPrices:      config.PlanPrices{Monthly: "price_pro_monthly", Yearly: "price_pro_yearly"},
		UltimatePrices: config.PlanPrices{Monthly: "price_ultimate_monthly", Yearly: "price_ultimate_yearly"},
		FreeTaskLimit:  10,
	}
	gate := billing.NewGate(cfg,
		repository.NewSubscriptionRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
	)
	policy := authz.NewEngine(gate)
	suite.service = NewProjectService(repository.NewProjectRepository(suite.db), policy)

	suite.org = &models.Organization{Name: "Acme"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	suite.admin = &models.User{
		Name: "Boss", Email: "boss@acme.test", PasswordHash: "x",
		OrganizationID: suite.org.ID, Role: models.RoleAdmin,
	}
	suite.Require().NoError(suite.db.Create(suite.admin).Error)
}

func (suite *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectServiceTestSuite) subscribe(priceID string) *models.Subscription {
	sub := &models.Subscription{
		OrganizationID: suite.org.ID,
		Status:         models.SubscriptionActive,
		PriceID:        priceID,
	}
	suite.Require().NoError(suite.db.Create(sub).Error)
	return sub
}

func (suite *ProjectServiceTestSuite) TestCreateProject_FreePlanForbidden() {
	_, err := suite.service.CreateProject(*suite.admin, CreateProjectInput{Name: "Rollout"})
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_PaidPlan() {
	suite.subscribe("price_pro_monthly")

	project, err := suite.service.CreateProject(*suite.admin, CreateProjectInput{Name: "Rollout"})
	suite.Require().NoError(err)
	suite.Equal(suite.org.ID, project.OrganizationID)
	suite.Equal(suite.admin.ID, project.CreatorID)
}

func (suite *ProjectServiceTestSuite) TestListProjects_FreePlanForbidden() {
	_, _, err := suite.service.ListProjects(*suite.admin, 1, 20)
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *ProjectServiceTestSuite) TestManagementSurvivesDowngrade() {
	sub := suite.subscribe("price_ultimate_monthly")

	project, err := suite.service.CreateProject(*suite.admin, CreateProjectInput{Name: "Rollout"})
	suite.Require().NoError(err)

	// Subscription lapses
	suite.Require().NoError(suite.db.Model(sub).
		Update("status", models.SubscriptionCanceled).Error)

	// Reads are gated again
	_, err = suite.service.GetProject(*suite.admin, project.ID)
	suite.ErrorIs(err, authz.ErrForbidden)

	// But updates and deletes still work on the existing project
	newName := "Rollback"
	_, err = suite.service.UpdateProject(*suite.admin, project.ID, UpdateProjectInput{Name: &newName})
	suite.NoError(err)

	suite.NoError(suite.service.DeleteProject(*suite.admin, project.ID))

	_, err = suite.service.RestoreProject(*suite.admin, project.ID)
	suite.NoError(err)
}

func (suite *ProjectServiceTestSuite) TestDeleteAndRestoreProject() {
	suite.subscribe("price_pro_yearly")

	project, err := suite.service.CreateProject(*suite.admin, CreateProjectInput{Name: "Phoenix"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteProject(*suite.admin, project.ID))

	_, err = suite.service.GetProject(*suite.admin, project.ID)
	suite.ErrorIs(err, ErrProjectNotFound)

	restored, err := suite.service.RestoreProject(*suite.admin, project.ID)
	suite.Require().NoError(err)
	suite.Nil(restored.DeletedAt)
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_EmptyName() {
	suite.subscribe("price_pro_monthly")

	project, err := suite.service.CreateProject(*suite.admin, CreateProjectInput{Name: "Keep"})
	suite.Require().NoError(err)

	empty := "  "
	_, err = suite.service.UpdateProject(*suite.admin, project.ID, UpdateProjectInput{Name: &empty})
	suite.ErrorIs(err, ErrProjectNameEmpty)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
