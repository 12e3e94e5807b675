package repository

import (
	"context"
	"errors"
	"strings"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 購入可能な本だけを、検索/ジャンル/著者/価格帯付きで新着順に返す。
func (r *BookGormRepository) ListAvailable(ctx context.Context, q repo.BookListQuery) ([]model.Book, error) {
	tx := r.db.WithContext(ctx).Model(&model.Book{})

	// カタログには is_available=true のみ
	tx = tx.Where("is_available = ?", true)

	// q はタイトル/著者を対象にした部分一致
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", like, like)
	}

	// ジャンルは完全一致
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	// 著者は部分一致
	if s := strings.TrimSpace(q.Author); s != "" {
		tx = tx.Where("author ILIKE ?", "%"+s+"%")
	}

	// 価格帯（境界含む）
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	var books []model.Book
	if err := tx.Order("created_at desc").Order("id desc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

func (r *BookGormRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]model.Book, error) {
	var books []model.Book
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").Order("id desc").
		Find(&books).Error
	if err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

func (r *BookGormRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Find(&books).Error
	if err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

func (r *BookGormRepository) FindByID(ctx context.Context, bookID int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).First(&b, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) FindByIDs(ctx context.Context, bookIDs []int64) ([]model.Book, error) {
	if len(bookIDs) == 0 {
		return []model.Book{}, nil
	}
	var books []model.Book
	if err := r.db.WithContext(ctx).Where("id IN ?", bookIDs).Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":       b.Title,
		"author":      b.Author,
		"year":        b.Year,
		"description": b.Description,
		"price":       b.Price,
		"cover":       b.Cover,
		"condition":   b.Condition,
		"category_id": b.CategoryID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) SetAvailability(ctx context.Context, bookID int64, available bool) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", bookID).
		Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Delete(ctx context.Context, bookID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, bookID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
