package media

import (
	"os"
	"path/filepath"
	"testing"

	"gamedb/core/skiplog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// writeMediaFile creates an empty file plus its parent directories.
func writeMediaFile(t *testing.T, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func systemRows() *sqlmock.Rows { return sqlmock.NewRows([]string{"id", "name"}) }

func titleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "system_id", "name", "description"})
}

func releaseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title_id", "region", "release_year", "release_month", "serial", "display_name"})
}

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "release_id", "media_type", "path"})
}

func TestImportPath_CreatesMediaRow(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "thumbnails", "SystemX", "named_boxarts", "Game (USA).png")

	db, mock := setupMockDB(t)
	mock.ExpectExec("TRUNCATE TABLE media").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").
		WillReturnRows(titleRows().AddRow(1, 1, "Game", nil))
	mock.ExpectQuery("SELECT \\* FROM `releases`").
		WillReturnRows(releaseRows().AddRow(1, 1, "USA", nil, nil, nil, nil))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `media`").WillReturnRows(mediaRows())
	mock.ExpectExec("INSERT INTO `media`").
		WithArgs(uint(1), "boxart", "thumbnails/SystemX/named_boxarts/Game (USA).png").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	imp := NewImporter(db, zap.NewNop(), false, skiplog.New(""))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesScanned)
	assert.Equal(t, 1, stats.TitlesMatched)
	assert.Equal(t, 1, stats.ReleasesMatched)
	assert.Equal(t, 1, stats.MediaCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second pass over the same tree in dry-run mode (no truncate) finds the
// row already present and only counts it.
func TestImportPath_DryRunSecondPassSkipsExisting(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "thumbnails", "SystemX", "named_boxarts", "Game (USA).png")

	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").
		WillReturnRows(titleRows().AddRow(1, 1, "Game", nil))
	mock.ExpectQuery("SELECT \\* FROM `releases`").
		WillReturnRows(releaseRows().AddRow(1, 1, "USA", nil, nil, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `media`").
		WillReturnRows(mediaRows().AddRow(1, 1, "boxart", "thumbnails/SystemX/named_boxarts/Game (USA).png"))

	imp := NewImporter(db, zap.NewNop(), true, skiplog.New(""))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedExisting)
	assert.Zero(t, stats.MediaCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPath_RegionDisambiguation(t *testing.T) {
	root := t.TempDir()
	// Walk order is lexical: "Game (Europe).png" precedes "Game.png".
	writeMediaFile(t, root, "SystemX", "named_boxarts", "Game (Europe).png")
	writeMediaFile(t, root, "SystemX", "named_boxarts", "Game.png")

	db, mock := setupMockDB(t)
	mock.ExpectExec("TRUNCATE TABLE media").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").
		WillReturnRows(titleRows().AddRow(1, 1, "Game", nil))
	mock.ExpectQuery("SELECT \\* FROM `releases`").
		WillReturnRows(releaseRows().
			AddRow(1, 1, "USA", nil, nil, nil, nil).
			AddRow(2, 1, "Europe", nil, nil, nil, nil))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `media`").WillReturnRows(mediaRows())
	mock.ExpectExec("INSERT INTO `media`").
		WithArgs(uint(2), "boxart", "SystemX/named_boxarts/Game (Europe).png").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// "Game.png" matches the title but no release; nothing touches the store.
	mock.ExpectCommit()

	imp := NewImporter(db, zap.NewNop(), false, skiplog.New(""))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 1, stats.MediaCreated)
	assert.Equal(t, 1, stats.SkippedAmbiguousRelease)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPath_UnknownSystemSkipsDirectory(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "NoSuchSystem", "named_boxarts", "Game.png")

	db, mock := setupMockDB(t)
	skipped := filepath.Join(t.TempDir(), "skipped.log")
	mock.ExpectQuery("SELECT \\* FROM `systems`").WillReturnRows(systemRows())

	imp := NewImporter(db, zap.NewNop(), true, skiplog.New(skipped))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedUnknownSystem)
	assert.Zero(t, stats.FilesScanned)

	logged, err := os.ReadFile(skipped)
	require.NoError(t, err)
	assert.Equal(t, "unknown_system path=NoSuchSystem\n", string(logged))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPath_UnknownMediaTypeAndTitle(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "SystemX", "covers", "Game.png")
	writeMediaFile(t, root, "SystemX", "named_boxarts", "Unknown Game.png")

	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").
		WillReturnRows(titleRows().AddRow(1, 1, "Game", nil))
	mock.ExpectQuery("SELECT \\* FROM `releases`").
		WillReturnRows(releaseRows().AddRow(1, 1, "USA", nil, nil, nil, nil))

	imp := NewImporter(db, zap.NewNop(), true, skiplog.New(""))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedUnknownType)
	assert.Equal(t, 1, stats.SkippedUnknownTitle)
	assert.Zero(t, stats.MediaCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPath_IgnoresUnsupportedExtensions(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "SystemX", "named_boxarts", "notes.txt")

	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").WillReturnRows(titleRows())
	mock.ExpectQuery("SELECT \\* FROM `releases`").WillReturnRows(releaseRows())

	imp := NewImporter(db, zap.NewNop(), true, skiplog.New(""))
	stats, err := imp.ImportPath(root, 0)
	require.NoError(t, err)

	assert.Zero(t, stats.FilesScanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPath_LimitStopsScan(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "SystemX", "named_boxarts", "A.png")
	writeMediaFile(t, root, "SystemX", "named_boxarts", "B.png")
	writeMediaFile(t, root, "SystemX", "named_boxarts", "C.png")

	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").WillReturnRows(titleRows())
	mock.ExpectQuery("SELECT \\* FROM `releases`").WillReturnRows(releaseRows())

	imp := NewImporter(db, zap.NewNop(), true, skiplog.New(""))
	stats, err := imp.ImportPath(root, 1)
	require.NoError(t, err)

	// The scan stops as soon as the counter passes the limit; the file
	// that trips it is counted but not handled.
	assert.Equal(t, 2, stats.FilesScanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Hitting the limit mid-system must still commit the rows created before
// it tripped; the stop is clean, not a transaction failure.
func TestImportPath_LimitCommitsPartialSystem(t *testing.T) {
	root := t.TempDir()
	writeMediaFile(t, root, "SystemX", "named_boxarts", "A.png")
	writeMediaFile(t, root, "SystemX", "named_boxarts", "B.png")

	db, mock := setupMockDB(t)
	mock.ExpectExec("TRUNCATE TABLE media").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `systems`").
		WillReturnRows(systemRows().AddRow(1, "SystemX"))
	mock.ExpectQuery("SELECT \\* FROM `titles`").
		WillReturnRows(titleRows().AddRow(1, 1, "A", nil))
	mock.ExpectQuery("SELECT \\* FROM `releases`").
		WillReturnRows(releaseRows().AddRow(1, 1, "USA", nil, nil, nil, nil))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `media`").WillReturnRows(mediaRows())
	mock.ExpectExec("INSERT INTO `media`").
		WithArgs(uint(1), "boxart", "SystemX/named_boxarts/A.png").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	imp := NewImporter(db, zap.NewNop(), false, skiplog.New(""))
	stats, err := imp.ImportPath(root, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 1, stats.MediaCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRoot(t *testing.T) {
	t.Run("prefers thumbnails subdirectory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "thumbnails"), 0o755))
		assert.Equal(t, filepath.Join(root, "thumbnails"), resolveRoot(root))
	})

	t.Run("falls back to the path itself", func(t *testing.T) {
		root := t.TempDir()
		assert.Equal(t, root, resolveRoot(root))
	})
}
