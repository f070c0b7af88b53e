package storage

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	logger2 "messageeditor/internal/logger"
	"messageeditor/pkg/model"
)

// editRecord 编辑规则的存储记录
type editRecord struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Pattern     string
	BeforePlace string
	After       string
	AfterPlace  string
}

func (editRecord) TableName() string { return "edits" }

// Store 规则配置存储，即设计中的配置协作方：
// 启动时装载规则表，会话提交时持久化新规则
type Store struct {
	db *gorm.DB
}

// Open 打开 sqlite 存储并迁移表结构
func Open(dsn, prefix string, l logger2.Logger) (*Store, error) {
	if l == nil {
		l = logger2.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(l),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	if err := db.AutoMigrate(&editRecord{}); err != nil {
		return nil, fmt.Errorf("migrate edits table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load 按插入顺序装载全部规则
func (s *Store) Load() ([]model.EditSpec, error) {
	var records []editRecord
	if err := s.db.Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load edits: %w", err)
	}
	specs := make([]model.EditSpec, 0, len(records))
	for _, r := range records {
		specs = append(specs, model.EditSpec{
			Name:        r.Name,
			Pattern:     r.Pattern,
			BeforePlace: r.BeforePlace,
			After:       r.After,
			AfterPlace:  r.AfterPlace,
		})
	}
	return specs, nil
}

// Append 追加一条规则
func (s *Store) Append(spec model.EditSpec) error {
	r := editRecord{
		Name:        spec.Name,
		Pattern:     spec.Pattern,
		BeforePlace: spec.BeforePlace,
		After:       spec.After,
		AfterPlace:  spec.AfterPlace,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return fmt.Errorf("append edit: %w", err)
	}
	return nil
}

// Replace 整体替换规则表，用于配置种子和重载
func (s *Store) Replace(specs []model.EditSpec) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&editRecord{}).Error; err != nil {
			return fmt.Errorf("clear edits: %w", err)
		}
		for _, spec := range specs {
			r := editRecord{
				Name:        spec.Name,
				Pattern:     spec.Pattern,
				BeforePlace: spec.BeforePlace,
				After:       spec.After,
				AfterPlace:  spec.AfterPlace,
			}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("insert edit: %w", err)
			}
		}
		return nil
	})
}

// Close 关闭底层连接
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
