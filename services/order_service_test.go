package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func productRows(id uint, name string, price float64, stock int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "created_by", "active", "created_at", "updated_at"}).
		AddRow(id, name, "", price, stock, 1, true, now, now)
}

func TestPlaceOrder_Success_TwoLines(t *testing.T) {
	gormDB, mockDB := setupMockDB(t)
	svc := NewOrderService(gormDB, zap.NewNop())

	mockDB.ExpectBegin()

	// line 1: stock 10, buy 3
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(1), true, 1).
		WillReturnRows(productRows(1, "Keyboard", 25.50, 10))
	mockDB.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=`)).
		WithArgs(7, sqlmock.AnyArg(), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// line 2: stock 4, buy 2
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(2), true, 1).
		WillReturnRows(productRows(2, "Mouse", 10.00, 4))
	mockDB.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=`)).
		WithArgs(2, sqlmock.AnyArg(), uint(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mockDB.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mockDB.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100).AddRow(101))

	mockDB.ExpectCommit()

	order, err := svc.PlaceOrder(context.Background(), 9, []types.OrderItemRequest{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(42), order.ID)
	assert.Equal(t, uint(9), order.UserID)
	assert.Equal(t, "Pending", order.Status)
	// total is the literal sum of snapshot price * quantity
	assert.InDelta(t, 25.50*3+10.00*2, order.TotalAmount, 0.0001)
	assert.Len(t, order.OrderItems, 2)
	assert.Equal(t, 25.50, order.OrderItems[0].Price)
	assert.Equal(t, 10.00, order.OrderItems[1].Price)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPlaceOrder_InsufficientStock_RollsBack(t *testing.T) {
	gormDB, mockDB := setupMockDB(t)
	svc := NewOrderService(gormDB, zap.NewNop())

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(1), true, 1).
		WillReturnRows(productRows(1, "Keyboard", 25.50, 5))
	mockDB.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []types.OrderItemRequest{
		{ProductID: 1, Quantity: 6},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInsufficientStock))
	// no UPDATE and no INSERT was issued before the rollback
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPlaceOrder_LaterLineFailure_RollsBackEarlierDecrements(t *testing.T) {
	gormDB, mockDB := setupMockDB(t)
	svc := NewOrderService(gormDB, zap.NewNop())

	mockDB.ExpectBegin()

	// first line succeeds and decrements
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(1), true, 1).
		WillReturnRows(productRows(1, "Keyboard", 25.50, 10))
	mockDB.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=`)).
		WithArgs(7, sqlmock.AnyArg(), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// second line: unknown product
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(uint(999), true, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mockDB.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []types.OrderItemRequest{
		{ProductID: 1, Quantity: 3},
		{ProductID: 999, Quantity: 1},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := NewOrderService(gormDB, zap.NewNop())

	_, err := svc.PlaceOrder(context.Background(), 9, nil)

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
}
