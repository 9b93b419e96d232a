package ledger

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	log "github.com/tiaotiao0823/Poker/core/log"
)

type ChipAccount struct {
	UserID string `gorm:"primarykey;size:64"`
	Chips  int64  `gorm:"not null"`
}

func (ChipAccount) TableName() string {
	return "chip_accounts"
}

// MySQL persists balances in a chip_accounts table. Debits use a
// conditional UPDATE so concurrent debits cannot overdraw.
type MySQL struct {
	db *gorm.DB
}

func NewMySQL(dsn string) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: log.NewGormLogrus(),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ChipAccount{}); err != nil {
		return nil, err
	}
	return &MySQL{db: db}, nil
}

func (m *MySQL) open(ctx context.Context, userID string) error {
	acc := &ChipAccount{UserID: userID, Chips: DefaultStartingChips}
	return m.db.WithContext(ctx).
		Where(&ChipAccount{UserID: userID}).
		FirstOrCreate(acc).Error
}

func (m *MySQL) Balance(ctx context.Context, userID string) (int64, error) {
	if err := m.open(ctx, userID); err != nil {
		return 0, err
	}
	acc := &ChipAccount{}
	err := m.db.WithContext(ctx).First(acc, "user_id = ?", userID).Error
	if err != nil {
		return 0, err
	}
	return acc.Chips, nil
}

func (m *MySQL) Debit(ctx context.Context, userID string, amount int64) error {
	if err := m.open(ctx, userID); err != nil {
		return err
	}
	ret := m.db.WithContext(ctx).Model(&ChipAccount{}).
		Where("user_id = ? AND chips >= ?", userID, amount).
		Update("chips", gorm.Expr("chips - ?", amount))
	if ret.Error != nil {
		return ret.Error
	}
	if ret.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (m *MySQL) Credit(ctx context.Context, userID string, amount int64) error {
	if err := m.open(ctx, userID); err != nil {
		return err
	}
	return m.db.WithContext(ctx).Model(&ChipAccount{}).
		Where("user_id = ?", userID).
		Update("chips", gorm.Expr("chips + ?", amount)).Error
}
