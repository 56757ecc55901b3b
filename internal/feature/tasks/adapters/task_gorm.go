package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// taskGorm はTaskRepositoryインターフェースのGORM実装です。
// すべてのクエリは id と created_by_user_id の両方で絞り込みます。
type taskGorm struct {
	db *gorm.DB
}

// taskGormがTaskRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm は指定されたgorm.DB接続でtaskGormの新しいインスタンスを生成します。
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// ownedBy scopes a query to one task of one owner.
func ownedBy(id, userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND created_by_user_id = ?", id, userID)
	}
}

// Create はタスクを保存し、採番されたIDを設定します。
func (r *taskGorm) Create(ctx context.Context, t *entity.Task) error {
	m := toModel(t)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	return nil
}

// FindByID は所有者のタスクを1件取得します。
func (r *taskGorm) FindByID(ctx context.Context, id, userID uint) (*entity.Task, error) {
	var m TaskModel
	if err := r.db.WithContext(ctx).Scopes(ownedBy(id, userID)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	t := m.toEntity()
	return &t, nil
}

// List は所有者のタスクを返します。期限日フィルターは [その日の0時, 翌日0時) の範囲で比較します。
func (r *taskGorm) List(ctx context.Context, userID uint, filter usecase.TaskFilter) ([]entity.Task, error) {
	q := r.db.WithContext(ctx).Where("created_by_user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", int(*filter.Status))
	}
	if filter.DueDate != nil {
		d := filter.DueDate.UTC()
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("due_date >= ? AND due_date < ?", start, start.AddDate(0, 0, 1))
	}

	var rows []TaskModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Update は所有者のタスクを読み込み、mutate を適用して同一トランザクション内で保存します。
// 作成日時と所有者は mutate が変更しても保存されません。
func (r *taskGorm) Update(ctx context.Context, id, userID uint, mutate func(*entity.Task) error) (*entity.Task, error) {
	var out entity.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m TaskModel
		if err := tx.Scopes(ownedBy(id, userID)).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrTaskNotFound
			}
			return err
		}

		t := m.toEntity()
		if err := mutate(&t); err != nil {
			return err
		}

		if err := tx.Model(&m).Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"due_date":    t.DueDate.UTC(),
			"status":      int(t.Status),
		}).Error; err != nil {
			return err
		}
		out = m.toEntity()
		out.Title, out.Description, out.DueDate, out.Status = t.Title, t.Description, t.DueDate.UTC(), t.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete は所有者のタスクを削除します。
func (r *taskGorm) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Scopes(ownedBy(id, userID)).Delete(&TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}
