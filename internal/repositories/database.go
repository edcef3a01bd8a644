package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/dmorenoc/retail-pos-platform/internal/config"

	_ "github.com/lib/pq"
)

type Repositories struct {
	DB        *sql.DB
	User      UserRepository
	Product   ProductRepository
	Client    ClientRepository
	Order     OrderRepository
	Reception ReceptionRepository
	Payment   PaymentRepository
	Dispatch  DispatchRepository
	Cashbox   CashboxRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:        db,
		User:      NewUserRepo(db),
		Product:   NewProductRepo(db),
		Client:    NewClientRepo(db),
		Order:     NewOrderRepo(db),
		Reception: NewReceptionRepo(db),
		Payment:   NewPaymentRepo(db),
		Dispatch:  NewDispatchRepo(db),
		Cashbox:   NewCashboxRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
