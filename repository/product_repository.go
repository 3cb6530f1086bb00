package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines data-access operations for the catalog.
//
// FindByID applies the same stock filter as the listing: a valid but
// sold-out product reads as not found. Clients depend on this, so single
// fetches and listings stay consistent with each other.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindForUpdate(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (uint, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateStock(ctx context.Context, id uint, stock int) error
	SoftDelete(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (bool, error)
	Search(ctx context.Context, term string, minPrice, maxPrice *float64) ([]models.Product, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll returns active products with stock, newest creator first.
func (r *GormProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("active = ? AND stock > 0", true).
		Order("created_by DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ? AND stock > 0", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("product with ID %d not found", id))
		}
		return nil, err
	}
	return &product, nil
}

// FindForUpdate loads an active product under a FOR UPDATE row lock. Must be
// called inside a transaction.
func (r *GormProductRepository) FindForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("product with ID %d not found", id))
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) (uint, error) {
	if product.Price <= 0 {
		return 0, apperrors.InvalidArgument("product price must be positive")
	}
	if strings.TrimSpace(product.Name) == "" {
		return 0, apperrors.InvalidArgument("product name is required")
	}

	product.Active = true
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return 0, err
	}
	return product.ID, nil
}

// Update overwrites name, description, price and stock. Creator and id are
// never altered.
func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("product with ID %d not found", product.ID))
	}
	return nil
}

// UpdateStock sets a product's stock to an absolute value. Callers are
// expected to hold a row lock via FindForUpdate.
func (r *GormProductRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

// SoftDelete marks a product inactive; history and order items remain intact.
func (r *GormProductRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("product with ID %d not found", id))
	}
	return nil
}

// AdjustStock applies delta to a product's stock, clamping the result at
// zero. Returns false when the product does not exist.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uint, delta int) (bool, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		newStock = 0
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", newStock).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Search filters active products by a name/description substring and an
// optional price range.
func (r *GormProductRepository) Search(ctx context.Context, term string, minPrice, maxPrice *float64) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ?", true)

	if strings.TrimSpace(term) != "" {
		pattern := "%" + term + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if minPrice != nil {
		query = query.Where("price >= ?", *minPrice)
	}
	if maxPrice != nil {
		query = query.Where("price <= ?", *maxPrice)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
