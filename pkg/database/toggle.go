package database

import (
	"context"

	"VideoTube.com/pkg/constants"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrToggleContended 并发切换导致在重试次数内既删不到也插不进
var ErrToggleContended = errors.New("toggle contended")

// ErrTargetMissing 关系指向的行在事务内已不存在
var ErrTargetMissing = errors.New("target missing")

// LockShared 事务内对目标行加共享锁, 行不存在时返回 ErrTargetMissing.
// 与 LockExclusive 配合, 保证关系写入和目标的级联删除串行.
func LockShared(tx *gorm.DB, table, column string, id int64) error {
	return lockRow(tx, clause.LockingStrengthShare, table, column, id)
}

// LockExclusive 事务内对目标行加排他锁, 行不存在时返回 ErrTargetMissing
func LockExclusive(tx *gorm.DB, table, column string, id int64) error {
	return lockRow(tx, clause.LockingStrengthUpdate, table, column, id)
}

func lockRow(tx *gorm.DB, strength, table, column string, id int64) error {
	var ids []int64
	err := tx.Table(table).Clauses(clause.Locking{Strength: strength}).
		Where(column+" = ?", id).Limit(1).Pluck(column, &ids).Error
	if err != nil {
		return errors.Wrapf(err, "lock %s.%s = %d", table, column, id)
	}
	if len(ids) == 0 {
		return ErrTargetMissing
	}
	return nil
}

// Toggle 翻转一条唯一关系记录, 每次调用恰好落地为一次 DELETE 或一次 INSERT.
// guard 在同一事务内先于切换执行, 为 nil 时跳过.
// remove 限定要删除的行, newRow 每次尝试返回一个新的待插入记录.
// 返回 true 表示切换后关系存在.
func Toggle(ctx context.Context, db *gorm.DB, guard func(tx *gorm.DB) error,
	remove func(tx *gorm.DB) *gorm.DB, newRow func() interface{}) (bool, error) {
	var present bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		for attempt := 0; attempt < constants.ToggleMaxAttempts; attempt++ {
			res := remove(tx)
			if res.Error != nil {
				return errors.Wrap(res.Error, "toggle delete")
			}
			if res.RowsAffected > 0 {
				present = false
				return nil
			}

			res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(newRow())
			if res.Error != nil {
				return errors.Wrap(res.Error, "toggle insert")
			}
			if res.RowsAffected > 0 {
				present = true
				return nil
			}
			// 两条语句之间有并发插入, 重新开始
		}
		return ErrToggleContended
	})
	if err != nil {
		return false, err
	}
	return present, nil
}
