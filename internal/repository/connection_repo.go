package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// ConnectionRepository provides data access methods for friend links
// between users.
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new repository bound to the given DB connection.
func NewConnectionRepository(database *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: database}
}

// ReceivedConnection is one edge as seen by its receiving side.
type ReceivedConnection struct {
	ID             uint64
	RequesterEmail string
}

// Create inserts a pending connection requested by requesterID towards
// targetID.
//
// Behavior:
//   - The canonical-pair unique index rejects a second edge for the same
//     unordered user pair, in either direction; that surfaces as
//     ErrDuplicateKey. No check-then-insert, so concurrent requests for
//     the same pair cannot both win.
func (r *ConnectionRepository) Create(ctx context.Context, requesterID, targetID uint64) (db.Connection, error) {
	conn := db.Connection{
		UserAID: requesterID,
		UserBID: targetID,
	}
	if err := r.db.WithContext(ctx).Create(&conn).Error; err != nil {
		return db.Connection{}, svcErr.FromStorage(err)
	}
	return conn, nil
}

// GetByID loads a connection. Unknown id → ErrNotFound.
func (r *ConnectionRepository) GetByID(ctx context.Context, id uint64) (db.Connection, error) {
	var conn db.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		return db.Connection{}, svcErr.FromStorage(err)
	}
	return conn, nil
}

// ListReceived returns the edges where userID is the receiving side,
// filtered by active state, joined with the requester's email.
//
// Edges the user initiated are deliberately not listed: only the receiver
// sees and acts on a pending request.
func (r *ConnectionRepository) ListReceived(ctx context.Context, userID uint64, active bool) ([]ReceivedConnection, error) {
	var rows []ReceivedConnection
	err := r.db.WithContext(ctx).
		Table("connections c").
		Select("c.id AS id, u.email AS requester_email").
		Joins("JOIN users u ON u.id = c.user_a_id").
		Where("c.user_b_id = ? AND c.active = ?", userID, active).
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, svcErr.FromStorage(err)
	}
	return rows, nil
}

// AcceptPending flips a connection from pending to active.
//
// Behavior:
//   - Single conditional UPDATE: only the receiving side of a
//     still-pending edge can accept, and the pending→active transition
//     happens at most once. Row-level atomicity, no read-modify-write.
//   - Returns false when no row matched (unknown id, wrong user, or
//     already active).
func (r *ConnectionRepository) AcceptPending(ctx context.Context, connectionID, receiverID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Connection{}).
		Where("id = ? AND user_b_id = ? AND active = ?", connectionID, receiverID, false).
		Update("active", true)
	if res.Error != nil {
		return false, svcErr.FromStorage(res.Error)
	}
	return res.RowsAffected > 0, nil
}
