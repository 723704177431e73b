package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestFindUsableByOrganization_PicksNewestUsable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "organization_id", "status", "price_id", "created_at", "updated_at"}).
		AddRow(12, 3, "active", "price_pro_monthly", now, now)

	mock.ExpectQuery("SELECT .+ FROM `subscriptions` WHERE organization_id = \\? AND status IN \\(\\?,\\?\\) ORDER BY created_at DESC").
		WithArgs(uint64(3), models.SubscriptionActive, models.SubscriptionTrialing, 1).
		WillReturnRows(rows)

	sub, err := repo.FindUsableByOrganization(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), sub.ID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, "price_pro_monthly", sub.PriceID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUsableByOrganization_NoneFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT .+ FROM `subscriptions`").
		WithArgs(uint64(7), models.SubscriptionActive, models.SubscriptionTrialing, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindUsableByOrganization(7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
