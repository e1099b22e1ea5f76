//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shortlink/internal/analytics/domain"
	"shortlink/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type ClickRepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	repo      *ClickRepository
}

func TestClickRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(ClickRepositoryTestSuite))
}

func (s *ClickRepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(s.T(), err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	s.db, err = database.OpenPostgres(dsn)
	require.NoError(s.T(), err)
	require.NoError(s.T(), database.Migrate(s.db, database.DriverPostgres))

	s.repo = NewClickRepository(s.db)
}

func (s *ClickRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *ClickRepositoryTestSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE clicks")
	s.Require().NoError(err)
}

func (s *ClickRepositoryTestSuite) click(linkID string, at time.Time) *domain.ClickEvent {
	return &domain.ClickEvent{
		ID:         uuid.NewString(),
		LinkID:     linkID,
		IPAddress:  "203.0.113.7",
		Browser:    "Firefox",
		OS:         "Linux",
		DeviceType: domain.DeviceDesktop,
		Country:    domain.StringPtr("France"),
		CreatedAt:  at,
	}
}

func (s *ClickRepositoryTestSuite) TestInsertAndListNewestFirst() {
	linkID := uuid.NewString()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.InsertClick(s.ctx, s.click(linkID, base.Add(time.Duration(i)*time.Second))))
	}

	clicks, err := s.repo.ListByLinkID(s.ctx, linkID)
	s.Require().NoError(err)
	s.Require().Len(clicks, 3)
	s.True(clicks[0].CreatedAt.After(clicks[2].CreatedAt))
	s.Require().NotNil(clicks[0].Country)
	s.Equal("France", *clicks[0].Country)
	s.Nil(clicks[0].City)
}

func (s *ClickRepositoryTestSuite) TestListByLinkID_NonUUID_ReturnsEmpty() {
	clicks, err := s.repo.ListByLinkID(s.ctx, "not-a-uuid")
	s.Require().NoError(err)
	s.Empty(clicks)
}
