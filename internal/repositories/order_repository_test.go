package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewOrderRepo(db), mock
}

// Single-line fragments of each statement; enough for the regexp matcher
// without depending on indentation.
var (
	orderInsertSQL  = regexp.QuoteMeta(`INSERT INTO orders (id, number, client_id, status, subtotal, tax, total, notes)`)
	itemInsertSQL   = regexp.QuoteMeta(`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)`)
	stockGuardSQL   = regexp.QuoteMeta(`WHERE id = $2 AND stock >= $1`)
	orderSelectSQL  = regexp.QuoteMeta(`SELECT id, number, client_id, status, subtotal, tax, total, notes, created_at, updated_at`)
	itemsSelectSQL  = regexp.QuoteMeta(`LEFT JOIN products p ON p.id = oi.product_id`)
	statusUpdateSQL = regexp.QuoteMeta(`SET status = $1, updated_at = NOW()`)
)

func submittedOrder() *models.Order {
	orderID := uuid.New()
	clientID := uuid.New()

	return &models.Order{
		ID:       orderID,
		Number:   "PED-260830-A1B2",
		ClientID: &clientID,
		Status:   models.OrderStatusPending,
		Subtotal: decimal.RequireFromString("37.50"),
		Tax:      decimal.RequireFromString("6.75"),
		Total:    decimal.RequireFromString("44.25"),
		Notes:    "Pago: efectivo | POS: Caja 1",
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: 7,
				Quantity:  5,
				UnitPrice: decimal.RequireFromString("7.50"),
				Subtotal:  decimal.RequireFromString("37.50"),
			},
		},
	}
}

func TestOrderRepoCreateOrder(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Items Inserted And Stock Decremented", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := submittedOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsertSQL).
			WithArgs(order.ID, order.Number, order.ClientID, order.Status,
				order.Subtotal, order.Tax, order.Total, order.Notes).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		item := order.Items[0]
		mock.ExpectQuery(itemInsertSQL).
			WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(stockGuardSQL).
			WithArgs(item.Quantity, item.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateOrder(ctx, order)

		assert.NoError(t, err)
		assert.WithinDuration(t, now, order.CreatedAt, time.Second)
		assert.WithinDuration(t, now, order.Items[0].CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Stock Guard Rejects Oversell", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := submittedOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsertSQL).
			WithArgs(order.ID, order.Number, order.ClientID, order.Status,
				order.Subtotal, order.Tax, order.Total, order.Notes).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		item := order.Items[0]
		mock.ExpectQuery(itemInsertSQL).
			WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		// Zero rows touched means another sale got there first.
		mock.ExpectExec(stockGuardSQL).
			WithArgs(item.Quantity, item.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateOrder(ctx, order)

		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrStockConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Header Insert Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := submittedOrder()
		dbErr := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsertSQL).
			WithArgs(order.ID, order.Number, order.ClientID, order.Status,
				order.Subtotal, order.Tax, order.Total, order.Notes).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.CreateOrder(ctx, order)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to insert order")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepoGetOrderByID(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Items Carry Joined Description", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		stored := submittedOrder()

		orderRows := sqlmock.NewRows([]string{"id", "number", "client_id", "status", "subtotal", "tax", "total", "notes", "created_at", "updated_at"}).
			AddRow(stored.ID.String(), stored.Number, stored.ClientID.String(), string(stored.Status),
				"37.50", "6.75", "44.25", stored.Notes, now, now)
		mock.ExpectQuery(orderSelectSQL).WithArgs(stored.ID).WillReturnRows(orderRows)

		item := stored.Items[0]
		itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "descripcion", "quantity", "unit_price", "subtotal", "created_at"}).
			AddRow(item.ID.String(), item.OrderID.String(), item.ProductID, "Detergente 500g", item.Quantity, "7.50", "37.50", now)
		mock.ExpectQuery(itemsSelectSQL).WithArgs(stored.ID).WillReturnRows(itemRows)

		order, err := repo.GetOrderByID(ctx, stored.ID)

		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "PED-260830-A1B2", order.Number)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("44.25")))
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Detergente 500g", order.Items[0].Description)
		assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("7.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		orderID := uuid.New()

		mock.ExpectQuery(orderSelectSQL).WithArgs(orderID).WillReturnError(sql.ErrNoRows)

		order, err := repo.GetOrderByID(ctx, orderID)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, order)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Items Query Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		stored := submittedOrder()
		dbErr := errors.New("items query failed")

		orderRows := sqlmock.NewRows([]string{"id", "number", "client_id", "status", "subtotal", "tax", "total", "notes", "created_at", "updated_at"}).
			AddRow(stored.ID.String(), stored.Number, stored.ClientID.String(), string(stored.Status),
				"37.50", "6.75", "44.25", stored.Notes, now, now)
		mock.ExpectQuery(orderSelectSQL).WithArgs(stored.ID).WillReturnRows(orderRows)
		mock.ExpectQuery(itemsSelectSQL).WithArgs(stored.ID).WillReturnError(dbErr)

		order, err := repo.GetOrderByID(ctx, stored.ID)

		require.Error(t, err)
		assert.ErrorContains(t, err, "querying order items")
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, order)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepoListOrders(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		stored := submittedOrder()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		orderRows := sqlmock.NewRows([]string{"id", "number", "client_id", "status", "subtotal", "tax", "total", "notes", "created_at", "updated_at"}).
			AddRow(stored.ID.String(), stored.Number, stored.ClientID.String(), string(stored.Status),
				"37.50", "6.75", "44.25", stored.Notes, now, now)
		mock.ExpectQuery(orderSelectSQL).WithArgs(10, 0).WillReturnRows(orderRows)

		orders, total, err := repo.ListOrders(ctx, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, stored.Number, orders[0].Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Count Query Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		dbErr := errors.New("count failed")

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).WillReturnError(dbErr)

		orders, total, err := repo.ListOrders(ctx, 1, 10)

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, orders)
		assert.Zero(t, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepoUpdateOrderStatus(t *testing.T) {
	ctx := t.Context()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(statusUpdateSQL).
			WithArgs(models.OrderStatusPaid, orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPaid)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(statusUpdateSQL).
			WithArgs(models.OrderStatusCancelled, orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepoReplaceOrder(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	restoreSQL := regexp.QuoteMeta(`SET stock = p.stock + oi.quantity, updated_at = NOW()`)
	deleteItemsSQL := regexp.QuoteMeta(`DELETE FROM order_items WHERE order_id = $1`)
	headerSQL := regexp.QuoteMeta(`SET client_id = $1, subtotal = $2, tax = $3, total = $4, notes = $5, updated_at = NOW()`)

	t.Run("Success - Restores Then Reapplies Stock", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := submittedOrder()

		mock.ExpectBegin()
		mock.ExpectExec(restoreSQL).WithArgs(order.ID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteItemsSQL).WithArgs(order.ID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(headerSQL).
			WithArgs(order.ClientID, order.Subtotal, order.Tax, order.Total, order.Notes, order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		item := order.Items[0]
		mock.ExpectQuery(itemInsertSQL).
			WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(stockGuardSQL).
			WithArgs(item.Quantity, item.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReplaceOrder(ctx, order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Stock Conflict On Reapply", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := submittedOrder()

		mock.ExpectBegin()
		mock.ExpectExec(restoreSQL).WithArgs(order.ID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteItemsSQL).WithArgs(order.ID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(headerSQL).
			WithArgs(order.ClientID, order.Subtotal, order.Tax, order.Total, order.Notes, order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		item := order.Items[0]
		mock.ExpectQuery(itemInsertSQL).
			WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(stockGuardSQL).
			WithArgs(item.Quantity, item.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ReplaceOrder(ctx, order)

		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrStockConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
