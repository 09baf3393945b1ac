package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertFillsIDAndCreatedAt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	o := &Order{
		CustomerEmail: "cliente@example.com",
		Phone:         "2221234567",
		Lines:         []Line{{SKU: "AGU-01", Name: "Aguacate Hass", UnitPrice: 89.5, Unit: "kg", Quantity: 0.5}},
		Total:         74.75,
		Status:        StatusPending,
		DeliveryDate:  time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		DeliverySlot:  "11:00",
	}

	detalle, err := json.Marshal(o.Lines)
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO pedidos`).
		WithArgs(o.CustomerEmail, o.Phone, detalle, o.Total, "Pendiente", o.DeliveryDate, o.DeliverySlot).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	repo := NewPostgresRepository(mock)
	require.NoError(t, repo.Insert(context.Background(), o))

	assert.Equal(t, int64(7), o.ID)
	assert.Equal(t, created, o.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListDecodesLegacyLineItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fecha := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	detalle := []byte(`[{"SKU":"AGU-01","Artículo":"Aguacate Hass","$ VENTA":89.5,"Unidad":"kg","quantity":1}]`)

	mock.ExpectQuery(`SELECT .+ FROM pedidos ORDER BY created_at DESC`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "created_at", "usuario_email", "telefono_cliente", "detalle_pedido", "total", "estado", "fecha_entrega", "hora_entrega",
		}).AddRow(int64(1), created, "cliente@example.com", "2221234567", detalle, 89.5, "pendiente", &fecha, "11:00"))

	repo := NewPostgresRepository(mock)
	orders, err := repo.List(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, fecha, o.DeliveryDate)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "AGU-01", o.Lines[0].SKU)
	assert.Equal(t, 89.5, o.Lines[0].UnitPrice)
}

func TestLatestByEmailNone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM pedidos WHERE usuario_email`).
		WithArgs("nuevo@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "created_at", "usuario_email", "telefono_cliente", "detalle_pedido", "total", "estado", "fecha_entrega", "hora_entrega",
		}))

	repo := NewPostgresRepository(mock)
	o, err := repo.LatestByEmail(context.Background(), "nuevo@example.com")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE pedidos SET estado`).
		WithArgs(int64(404), "Pagado").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	err = repo.UpdateStatus(context.Background(), 404, StatusPaid)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLines(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	lines := []Line{{SKU: "JIT-01", Name: "Jitomate", UnitPrice: 24, Unit: "kg", Quantity: 2}}
	detalle, err := json.Marshal(lines)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE pedidos SET detalle_pedido`).
		WithArgs(int64(7), detalle, 48.0, "Entregado").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresRepository(mock)
	require.NoError(t, repo.UpdateLines(context.Background(), 7, lines, 48.0, StatusDelivered))
	require.NoError(t, mock.ExpectationsWereMet())
}
