package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "created_by", "active", "created_at", "updated_at"})
}

func TestFindAll_FiltersInactiveAndOutOfStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	now := time.Now()
	rows := productRows().
		AddRow(2, "Mouse", "", 10.0, 3, 8, true, now, now).
		AddRow(1, "Keyboard", "", 25.5, 10, 4, true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE active = $1 AND stock > 0 ORDER BY created_by DESC`)).
		WithArgs(true).
		WillReturnRows(rows)

	products, err := repo.FindAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Mouse", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_HiddenAtZeroStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	// the stock > 0 predicate means a sold-out product row never comes back
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(3), true, 1).
		WillReturnRows(productRows())

	p, err := repo.FindByID(context.Background(), 3)
	assert.Nil(t, p)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(1), true, 1).
		WillReturnRows(productRows().AddRow(1, "Keyboard", "mechanical", 25.5, 10, 4, true, now, now))

	p, err := repo.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Name)
	assert.Equal(t, 10, p.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsNonPositivePrice(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	_, err := repo.Create(context.Background(), &models.Product{Name: "Free", Price: 0})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
}

func TestCreate_RejectsBlankName(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	_, err := repo.Create(context.Background(), &models.Product{Name: "   ", Price: 9.99})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
}

func TestCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), &models.Product{
		Name:      "Keyboard",
		Price:     25.5,
		Stock:     10,
		CreatedBy: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Product{ID: 99, Name: "Ghost", Price: 1})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Product{
		ID:    1,
		Name:  "Keyboard v2",
		Price: 29.9,
		Stock: 4,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_MarksInactive(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WithArgs(false, sqlmock.AnyArg(), uint(1), true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SoftDelete(context.Background(), 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SoftDelete(context.Background(), 42)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(1), 1).
		WillReturnRows(productRows().AddRow(1, "Keyboard", "", 25.5, 5, 4, true, now, now))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WithArgs(0, sqlmock.AnyArg(), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	found, err := repo.AdjustStock(context.Background(), 1, -10)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_ProductMissing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(77), 1).
		WillReturnRows(productRows())

	found, err := repo.AdjustStock(context.Background(), 77, 5)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_TermAndPriceRange(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	now := time.Now()
	minPrice := 5.0
	maxPrice := 50.0

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(true, "%key%", "%key%", minPrice, maxPrice).
		WillReturnRows(productRows().AddRow(1, "Keyboard", "", 25.5, 10, 4, true, now, now))

	products, err := repo.Search(context.Background(), "key", &minPrice, &maxPrice)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
