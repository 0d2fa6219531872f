package repository

import (
	"context"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type PGProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PGProductRepository{db: db}
}

func (r *PGProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title FROM products WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var _ ProductRepository = (*PGProductRepository)(nil)
