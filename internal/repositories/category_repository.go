package repositories

import (
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *CategoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Preload("User").Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return &category, nil
}

// Update writes every column, so clearing the owner of a category that
// became global is persisted.
func (r *CategoryRepository) Update(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	result := r.db.Model(category).Select("*").Omit("User", "CreatedAt").Updates(category)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// ListVisible returns the global categories plus the user's own, ordered by
// name. A category matches both arms at most once, so the union has no
// duplicates.
func (r *CategoryRepository) ListVisible(userID uuid.UUID, categoryType string) ([]models.Category, error) {
	var categories []models.Category

	query := r.db.Where("(is_global = ? OR user_id = ?)", true, userID)
	if categoryType != "" {
		query = query.Where("category_type = ?", categoryType)
	}

	if err := query.Order("name ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) ListWithFilters(filters models.AdminCategoryFilters) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.Model(&models.Category{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.CategoryType != "" {
		query = query.Where("category_type = ?", filters.CategoryType)
	}
	if filters.IsGlobal != nil {
		query = query.Where("is_global = ?", *filters.IsGlobal)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Preload("User").
		Order("name ASC").
		Offset(filters.Offset).
		Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, total, nil
}

// EnsureGlobal returns the global category with the given name and type,
// creating it when missing.
func (r *CategoryRepository) EnsureGlobal(name, categoryType string) (*models.Category, error) {
	category := models.Category{}
	err := r.db.Where("name = ? AND category_type = ? AND is_global = ?", name, categoryType, true).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up global category: %w", err)
	}

	category = models.Category{Name: name, CategoryType: categoryType, IsGlobal: true}
	if err := r.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func likePattern(search string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(escaper.Replace(search)) + "%"
}
