package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type CreateGroupInput struct {
	CoachID     int64
	Name        string
	Description *string
}

type GroupRepository struct {
	db DBTX
}

func NewGroupRepository(db DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	query := `
		INSERT INTO groups (coach_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, coach_id, name, description, created_at, updated_at
	`

	var group models.Group
	err := r.db.QueryRow(ctx, query, input.CoachID, input.Name, input.Description).Scan(
		&group.ID,
		&group.CoachID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID int64) (*models.Group, error) {
	query := `
		SELECT id, coach_id, name, description, created_at, updated_at
		FROM groups
		WHERE id = $1
	`

	var group models.Group
	err := r.db.QueryRow(ctx, query, groupID).Scan(
		&group.ID,
		&group.CoachID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.GroupDetail, error) {
	query := `
		SELECT g.id, g.coach_id, g.name, g.description, g.created_at, g.updated_at,
			COALESCE(mc.member_count, 0)
		FROM groups g
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS member_count
			FROM group_members
			WHERE group_id = g.id
		) mc ON TRUE
		WHERE g.coach_id = $1
		ORDER BY g.created_at DESC, g.id DESC
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.GroupDetail, 0)
	for rows.Next() {
		var group models.GroupDetail
		if err := rows.Scan(
			&group.ID,
			&group.CoachID,
			&group.Name,
			&group.Description,
			&group.CreatedAt,
			&group.UpdatedAt,
			&group.MemberCount,
		); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, groupID, userID)
	return err
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	return err
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var isMember bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`, groupID, userID).Scan(&isMember)
	return isMember, err
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]models.GroupMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT group_id, user_id, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at, user_id
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.GroupMember, 0)
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}
