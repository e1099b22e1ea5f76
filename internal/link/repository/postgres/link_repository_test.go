//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shortlink/internal/database"
	"shortlink/internal/link/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// LinkRepositoryTestSuite runs the repository against a real PostgreSQL.
type LinkRepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	repo      *LinkRepository
}

func TestLinkRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(LinkRepositoryTestSuite))
}

func (s *LinkRepositoryTestSuite) SetupSuite() {
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

	s.repo = NewLinkRepository(s.db)
}

func (s *LinkRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *LinkRepositoryTestSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE links")
	s.Require().NoError(err)
}

func (s *LinkRepositoryTestSuite) newLink(tok string) *domain.Link {
	return &domain.Link{
		ID:          uuid.NewString(),
		Token:       tok,
		OriginalURL: "https://example.com/" + tok,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *LinkRepositoryTestSuite) TestInsertAndGetByToken() {
	inserted, err := s.repo.InsertLink(s.ctx, s.newLink("abc123"))
	s.Require().NoError(err)

	found, err := s.repo.GetByToken(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(inserted.ID, found.ID)
	s.Equal("https://example.com/abc123", found.OriginalURL)
	s.True(inserted.CreatedAt.Equal(found.CreatedAt))
}

func (s *LinkRepositoryTestSuite) TestInsertDuplicateToken() {
	_, err := s.repo.InsertLink(s.ctx, s.newLink("dup123"))
	s.Require().NoError(err)

	_, err = s.repo.InsertLink(s.ctx, s.newLink("dup123"))
	s.ErrorIs(err, domain.ErrDuplicateToken)
}

func (s *LinkRepositoryTestSuite) TestExistsByToken() {
	exists, err := s.repo.ExistsByToken(s.ctx, "exist1")
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.repo.InsertLink(s.ctx, s.newLink("exist1"))
	s.Require().NoError(err)

	exists, err = s.repo.ExistsByToken(s.ctx, "exist1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *LinkRepositoryTestSuite) TestGetByID() {
	inserted, err := s.repo.InsertLink(s.ctx, s.newLink("byid01"))
	s.Require().NoError(err)

	found, err := s.repo.GetByID(s.ctx, inserted.ID)
	s.Require().NoError(err)
	s.Equal("byid01", found.Token)

	_, err = s.repo.GetByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.repo.GetByID(s.ctx, "not-a-uuid")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *LinkRepositoryTestSuite) TestListByOwner() {
	owner := "alice"
	for i, tok := range []string{"own001", "own002"} {
		l := s.newLink(tok)
		l.Owner = &owner
		l.CreatedAt = l.CreatedAt.Add(time.Duration(i) * time.Second)
		_, err := s.repo.InsertLink(s.ctx, l)
		s.Require().NoError(err)
	}

	links, err := s.repo.ListByOwner(s.ctx, owner, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(links, 2)
	s.Equal("own002", links[0].Token)
}
