package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// DatabaseStore keeps sessions in the sessions table next to the users they
// belong to.
type DatabaseStore struct {
	db       *gorm.DB
	ttl      time.Duration
	now      clock
	newToken func() string
}

func NewDatabaseStore(db *gorm.DB, ttl time.Duration) *DatabaseStore {
	return &DatabaseStore{db: db, ttl: ttl, now: utcNow, newToken: NewToken}
}

func (s *DatabaseStore) Create(ctx context.Context, userID uint) (domain.Session, error) {
	sess := domain.Session{
		Token:     s.newToken(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *DatabaseStore) Get(ctx context.Context, token string) (domain.Session, error) {
	var sess domain.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	if sess.Expired(s.now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (s *DatabaseStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{}).Error
}

// PurgeExpired drops every session that expired before now and reports how
// many were removed.
func (s *DatabaseStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&domain.Session{})
	return result.RowsAffected, result.Error
}
