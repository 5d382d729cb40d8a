package repository

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"gorm.io/gorm"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

// ---------------- Areas ----------------

func (r *TableRepository) CreateArea(a *entity.Area) error {
	return r.DB.Create(a).Error
}

func (r *TableRepository) GetArea(id uint) (*entity.Area, error) {
	var a entity.Area
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *TableRepository) CountTablesInArea(areaID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Table{}).Where("area_id = ?", areaID).Count(&count).Error
	return count, err
}

func (r *TableRepository) DeleteArea(id uint) error {
	return r.DB.Delete(&entity.Area{}, id).Error
}

// ---------------- Tables ----------------

func (r *TableRepository) CreateTable(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) GetTable(id uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) CountByAreaNumber(areaID uint, number int) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Table{}).
		Where("area_id = ? AND number = ?", areaID, number).Count(&count).Error
	return count, err
}

func (r *TableRepository) UpdateTable(id uint, updates map[string]any) error {
	return r.DB.Model(&entity.Table{}).Where("id = ?", id).Updates(updates).Error
}

func (r *TableRepository) DeleteTable(tx *gorm.DB, id uint) error {
	return tx.Delete(&entity.Table{}, id).Error
}

func (r *TableRepository) ListByArea(areaID uint) ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.Where("area_id = ?", areaID).Order("number ASC").Find(&out).Error
	return out, err
}

// UpdateStateGuard flips the table state only when the current state is
// one of from; the affected row count tells the caller whether it won.
func (r *TableRepository) UpdateStateGuard(tx *gorm.DB, tableID uint, from []string, to string) (int64, error) {
	res := tx.Model(&entity.Table{}).
		Where("id = ? AND state IN ?", tableID, from).
		Update("state", to)
	return res.RowsAffected, res.Error
}

// CountActiveOrdersOnTable counts non-terminal orders attached to the
// table. The occupancy invariant keeps this at most 1.
func (r *TableRepository) CountActiveOrdersOnTable(tx *gorm.DB, tableID, closedStatusID uint) (int64, error) {
	var count int64
	err := tx.Model(&entity.Order{}).
		Where("table_id = ? AND order_status_id <> ?", tableID, closedStatusID).
		Count(&count).Error
	return count, err
}
