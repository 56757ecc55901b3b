package usecase

import (
	"context"
	"fmt"
	"time"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskFilter は List の絞り込み条件です。nil のフィールドは条件に含めません。
type TaskFilter struct {
	Status *entity.Status
	// DueDate は期限がUTCで同じ日付のタスクを選択します。
	DueDate *time.Time
}

// TaskRepository はタスクの永続化層を抽象化します。
// すべての操作は所有者IDで絞り込まれ、他ユーザーのタスクは存在しないものとして扱われます。
type TaskRepository interface {
	// Create はタスクを永続化し、採番されたIDを設定します。
	Create(ctx context.Context, task *entity.Task) error

	// FindByID は id と所有者の両方に一致するタスクを返します。該当しない場合は ErrTaskNotFound を返します。
	FindByID(ctx context.Context, id, userID uint) (*entity.Task, error)

	// List は所有者のタスクをフィルター条件で返します。
	List(ctx context.Context, userID uint, filter TaskFilter) ([]entity.Task, error)

	// Update は所有者のタスクを読み込み、mutate を適用して保存します。読み込みと保存は同一トランザクションで行われます。
	// mutate がエラーを返した場合は何も保存されません。
	Update(ctx context.Context, id, userID uint, mutate func(*entity.Task) error) (*entity.Task, error)

	// Delete は id と所有者の両方に一致するタスクを削除します。該当しない場合は ErrTaskNotFound を返します。
	Delete(ctx context.Context, id, userID uint) error
}

// TaskInput は呼び出し元が指定するタスクのフィールドです。
type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      entity.Status
}

// ListInput は呼び出し元から受け取った未加工の一覧フィルターです。
type ListInput struct {
	// Status はラベルまたは数値です。解釈できない値は無視されます。
	Status  string
	DueDate *time.Time
}

// taskUsecase はタスク管理のビジネスロジックを実装します。
type taskUsecase struct {
	repo             TaskRepository
	validateOnUpdate bool
	now              func() time.Time
}

// NewTaskUsecase はtaskUsecaseの新しいインスタンスを生成します。
// validateOnUpdate が true の場合、Update でも保存済みの作成日時に対してタスクルールを検証します。
func NewTaskUsecase(repo TaskRepository, validateOnUpdate bool) *taskUsecase {
	return &taskUsecase{repo: repo, validateOnUpdate: validateOnUpdate, now: time.Now}
}

// Validate はタスクルールで検証します。詳細はパッケージレベルの Validate を参照してください。
func (u *taskUsecase) Validate(task *entity.Task) (bool, string) {
	return Validate(task)
}

// Create はサーバー時刻を作成日時として設定し、検証に成功した場合のみタスクを保存します。
func (u *taskUsecase) Create(ctx context.Context, in TaskInput, userID uint) (*entity.Task, error) {
	task := &entity.Task{
		Title:           in.Title,
		Description:     in.Description,
		CreatedAt:       u.now().UTC(),
		DueDate:         in.DueDate.UTC(),
		CreatedByUserID: userID,
		Status:          in.Status,
	}
	if ok, msg := Validate(task); !ok {
		return nil, &ValidationError{Message: msg}
	}
	if err := u.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetByID は所有者のタスクを返します。存在しない場合も他ユーザーのタスクの場合も ErrTaskNotFound を返します。
func (u *taskUsecase) GetByID(ctx context.Context, id, userID uint) (*entity.Task, error) {
	return u.repo.FindByID(ctx, id, userID)
}

// List は所有者のタスクを返します。解釈できないステータスは無視されます。
func (u *taskUsecase) List(ctx context.Context, in ListInput, userID uint) ([]entity.Task, error) {
	var filter TaskFilter
	if in.Status != "" {
		if s, err := entity.ParseStatus(in.Status); err == nil {
			filter.Status = &s
		}
	}
	if in.DueDate != nil {
		day := in.DueDate.UTC()
		filter.DueDate = &day
	}
	return u.repo.List(ctx, userID, filter)
}

// Update は4つの可変フィールド（タイトル・説明・期限・ステータス）を上書きします。
// 作成日時と所有者は変更されません。
func (u *taskUsecase) Update(ctx context.Context, id uint, in TaskInput, userID uint) (*entity.Task, error) {
	return u.repo.Update(ctx, id, userID, func(t *entity.Task) error {
		t.Title = in.Title
		t.Description = in.Description
		t.DueDate = in.DueDate.UTC()
		t.Status = in.Status
		if u.validateOnUpdate {
			if ok, msg := Validate(t); !ok {
				return &ValidationError{Message: msg}
			}
		}
		return nil
	})
}

// Delete は所有者のタスクを削除します。
func (u *taskUsecase) Delete(ctx context.Context, id, userID uint) error {
	return u.repo.Delete(ctx, id, userID)
}
