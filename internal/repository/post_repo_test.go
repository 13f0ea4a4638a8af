package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"postboard/internal/model"
)

var feedRowColumns = []string{
	"id", "user_id", "content", "created_at", "updated_at",
	"author_id", "username", "name", "profile_image", "like_count", "liked",
}

func newPostRepoWithMock(t *testing.T) (*PostRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostRepository(db), mock
}

func TestPostRepositoryFindByIDNotFound(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM posts WHERE id = \$1`).
		WithArgs("p-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "p-404")
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostRepositoryCreateUnknownOwner(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO posts`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := repo.Create(context.Background(), model.Post{ID: "p-1", UserID: "ghost", Content: "hi"})
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestPostRepositoryUpdateContent(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	mock.ExpectQuery(`UPDATE posts SET content = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("p-1", "edited", updated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "created_at", "updated_at"}).
			AddRow("p-1", "u-1", "edited", created, updated))

	p, err := repo.UpdateContent(context.Background(), "p-1", "edited", updated)
	require.NoError(t, err)
	require.Equal(t, "u-1", p.UserID)
	require.Equal(t, "edited", p.Content)
	require.Equal(t, updated, p.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryUpdateContentMissingPost(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectQuery(`UPDATE posts`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateContent(context.Background(), "p-404", "x", time.Now())
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostRepositoryDelete(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "p-1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "p-1"), model.ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListFeed(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)
	newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	mock.ExpectQuery(`FROM posts p\s+JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC`).
		WithArgs("viewer").
		WillReturnRows(sqlmock.NewRows(feedRowColumns).
			AddRow("p-2", "u-2", "second", newer, newer, "u-2", "bob", "Bob", "/b.png", 1, true).
			AddRow("p-1", "u-1", "first", older, older, "u-1", "alice", "Alice", "/a.png", 0, false))

	items, err := repo.ListFeed(context.Background(), "viewer")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "p-2", items[0].ID)
	require.Equal(t, "bob", items[0].Author.Username)
	require.Equal(t, 1, items[0].LikeCount)
	require.True(t, items[0].Liked)
	require.False(t, items[1].Liked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListByOwnerEmpty(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectQuery(`WHERE p.user_id = \$2`).
		WithArgs("viewer", "owner").
		WillReturnRows(sqlmock.NewRows(feedRowColumns))

	items, err := repo.ListByOwner(context.Background(), "owner", "viewer")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestPostRepositoryToggleLikeAdds(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM post_likes WHERE post_id = \$1 AND user_id = \$2`).
		WithArgs("p-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO post_likes .+ ON CONFLICT`).
		WithArgs("p-1", "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM post_likes`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	res, err := repo.ToggleLike(context.Background(), "p-1", "u-1")
	require.NoError(t, err)
	require.Equal(t, model.LikeResult{PostID: "p-1", Liked: true, LikeCount: 3}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryToggleLikeRemoves(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs("p-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM post_likes`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	res, err := repo.ToggleLike(context.Background(), "p-1", "u-1")
	require.NoError(t, err)
	require.False(t, res.Liked)
	require.Zero(t, res.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryToggleLikeMissingPostRollsBack(t *testing.T) {
	repo, mock := newPostRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM post_likes`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO post_likes`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	mock.ExpectRollback()

	_, err := repo.ToggleLike(context.Background(), "p-404", "u-1")
	require.ErrorIs(t, err, model.ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
