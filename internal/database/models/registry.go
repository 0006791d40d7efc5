package models

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/database/dbretry"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
)

// RegistryModel handles database operations for guild owners and reviewers.
type RegistryModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewRegistry creates a RegistryModel with database access.
func NewRegistry(db *bun.DB, logger *zap.Logger) *RegistryModel {
	return &RegistryModel{
		db:     db,
		logger: logger.Named("db_registry"),
	}
}

// HasOwner reports whether the guild has at least one owner.
func (m *RegistryModel) HasOwner(ctx context.Context, guildID snowflake.ID) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*types.GuildOwner)(nil)).
			Where("guild_id = ?", guildID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check guild owner: %w (guildID=%s)", err, guildID)
		}

		return exists, nil
	})
}

// BootstrapOwner makes the candidate the first owner of a guild that has none.
// Returns true only for the call that created the owner; concurrent callers
// for the same guild see false once one of them has committed.
func (m *RegistryModel) BootstrapOwner(ctx context.Context, guildID, candidate snowflake.ID) (bool, error) {
	if guildID == 0 || candidate == 0 {
		return false, fmt.Errorf("%w: guild and candidate are required", types.ErrInvalidArgument)
	}

	var opts *sql.TxOptions
	if m.db.Dialect().Name() == dialect.PG {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	var created bool

	err := dbretry.TransactionWithOptions(ctx, m.db, opts, func(ctx context.Context, tx bun.Tx) error {
		created = false

		exists, err := tx.NewSelect().
			Model((*types.GuildOwner)(nil)).
			Where("guild_id = ?", guildID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check guild owner: %w", err)
		}

		if exists {
			return nil
		}

		_, err = tx.NewInsert().
			Model(&types.GuildOwner{GuildID: guildID, UserID: candidate, AddedAt: time.Now().UTC()}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert bootstrap owner: %w", err)
		}

		created = true

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to bootstrap owner: %w (guildID=%s)", err, guildID)
	}

	if created {
		m.logger.Info("Bootstrapped guild owner",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("userID", uint64(candidate)))
	}

	return created, nil
}

// AddOwner grants owner rights. Adding an existing owner is a no-op.
func (m *RegistryModel) AddOwner(ctx context.Context, guildID, userID snowflake.ID) error {
	return m.insertMember(ctx, &types.GuildOwner{GuildID: guildID, UserID: userID, AddedAt: time.Now().UTC()})
}

// AddReviewer grants reviewer rights. Adding an existing reviewer is a no-op.
func (m *RegistryModel) AddReviewer(ctx context.Context, guildID, userID snowflake.ID) error {
	return m.insertMember(ctx, &types.GuildReviewer{GuildID: guildID, UserID: userID, AddedAt: time.Now().UTC()})
}

// RemoveOwner revokes owner rights. Returns whether a grant was removed.
func (m *RegistryModel) RemoveOwner(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	return m.deleteMember(ctx, (*types.GuildOwner)(nil), guildID, userID)
}

// RemoveReviewer revokes reviewer rights. Returns whether a grant was removed.
func (m *RegistryModel) RemoveReviewer(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	return m.deleteMember(ctx, (*types.GuildReviewer)(nil), guildID, userID)
}

// RemoveOwnerKeepingOne revokes owner rights unless the user is the guild's only owner.
func (m *RegistryModel) RemoveOwnerKeepingOne(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	var removed bool

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		removed = false

		var owners []snowflake.ID

		err := tx.NewSelect().
			Model((*types.GuildOwner)(nil)).
			Column("user_id").
			Where("guild_id = ?", guildID).
			Scan(ctx, &owners)
		if err != nil {
			return fmt.Errorf("failed to list owners: %w", err)
		}

		if !slices.Contains(owners, userID) {
			return nil
		}

		if len(owners) == 1 {
			return types.ErrLastOwner
		}

		_, err = tx.NewDelete().
			Model((*types.GuildOwner)(nil)).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete owner: %w", err)
		}

		removed = true

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove owner: %w (guildID=%s, userID=%s)", err, guildID, userID)
	}

	return removed, nil
}

// ListOwners returns the guild's owners in the order they were added.
func (m *RegistryModel) ListOwners(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	return m.listMembers(ctx, (*types.GuildOwner)(nil), guildID)
}

// ListReviewers returns the guild's reviewers in the order they were added.
func (m *RegistryModel) ListReviewers(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	return m.listMembers(ctx, (*types.GuildReviewer)(nil), guildID)
}

// ListAuthorized returns owners followed by reviewers, without duplicates.
func (m *RegistryModel) ListAuthorized(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	owners, err := m.ListOwners(ctx, guildID)
	if err != nil {
		return nil, err
	}

	reviewers, err := m.ListReviewers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	authorized := make([]snowflake.ID, 0, len(owners)+len(reviewers))
	seen := make(map[snowflake.ID]struct{}, len(owners)+len(reviewers))

	for _, id := range slices.Concat(owners, reviewers) {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		authorized = append(authorized, id)
	}

	return authorized, nil
}

// IsOwner reports whether the user owns the guild.
func (m *RegistryModel) IsOwner(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	return m.isMember(ctx, (*types.GuildOwner)(nil), guildID, userID)
}

// IsAuthorized reports whether the user is an owner or a reviewer of the guild.
func (m *RegistryModel) IsAuthorized(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	owner, err := m.IsOwner(ctx, guildID, userID)
	if err != nil || owner {
		return owner, err
	}

	return m.isMember(ctx, (*types.GuildReviewer)(nil), guildID, userID)
}

// insertMember inserts a registry row, ignoring existing grants.
func (m *RegistryModel) insertMember(ctx context.Context, model any) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(model).
			On("CONFLICT (guild_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add %T: %w", model, err)
		}

		return nil
	})
}

// deleteMember deletes a registry row if present.
func (m *RegistryModel) deleteMember(ctx context.Context, model any, guildID, userID snowflake.ID) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model(model).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to remove %T: %w (guildID=%s, userID=%s)", model, err, guildID, userID)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to get affected rows: %w", err)
		}

		return affected > 0, nil
	})
}

// listMembers returns the user IDs of a registry table for a guild.
func (m *RegistryModel) listMembers(ctx context.Context, model any, guildID snowflake.ID) ([]snowflake.ID, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]snowflake.ID, error) {
		var ids []snowflake.ID

		err := m.db.NewSelect().
			Model(model).
			Column("user_id").
			Where("guild_id = ?", guildID).
			Order("added_at ASC", "user_id ASC").
			Scan(ctx, &ids)
		if err != nil {
			return nil, fmt.Errorf("failed to list %T: %w (guildID=%s)", model, err, guildID)
		}

		return ids, nil
	})
}

// isMember checks for a single registry row.
func (m *RegistryModel) isMember(ctx context.Context, model any, guildID, userID snowflake.ID) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model(model).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check %T: %w (guildID=%s, userID=%s)", model, err, guildID, userID)
		}

		return exists, nil
	})
}
