package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concord-backend/internal/chat"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger
var db *sql.DB

func Setup(_sugar *zap.SugaredLogger, _db *sql.DB) {
	sugar = _sugar
	db = _db
}

const memberColumns = `
	members.id,
	members.server_id,
	members.profile_id,
	members.role,
	profiles.display_name,
	profiles.picture`

func scanMember(row *sql.Row) (*chat.Member, error) {
	var member chat.Member
	var picture sql.NullString
	err := row.Scan(
		&member.ID,
		&member.ServerID,
		&member.ProfileID,
		&member.Role,
		&member.Profile.DisplayName,
		&picture,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	member.Profile.ID = member.ProfileID
	member.Profile.Picture = picture.String
	return &member, nil
}

// Member resolves a profile's membership record for one server.
func Member(ctx context.Context, profileID int64, serverID int64) (*chat.Member, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		JOIN profiles ON profiles.id = members.profile_id
		WHERE members.profile_id = ? AND members.server_id = ?`,
		profileID, serverID)
	return scanMember(row)
}

// MemberByID fetches a member record by its own ID.
func MemberByID(ctx context.Context, memberID int64) (*chat.Member, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		JOIN profiles ON profiles.id = members.profile_id
		WHERE members.id = ?`,
		memberID)
	return scanMember(row)
}

// ServerMembers lists all members of a server with their profiles.
func ServerMembers(ctx context.Context, serverID int64) ([]chat.Member, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		JOIN profiles ON profiles.id = members.profile_id
		WHERE members.server_id = ?
		ORDER BY members.id`,
		serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []chat.Member{}
	for rows.Next() {
		var member chat.Member
		var picture sql.NullString
		err := rows.Scan(
			&member.ID,
			&member.ServerID,
			&member.ProfileID,
			&member.Role,
			&member.Profile.DisplayName,
			&picture,
		)
		if err != nil {
			return nil, err
		}
		member.Profile.ID = member.ProfileID
		member.Profile.Picture = picture.String
		members = append(members, member)
	}
	return members, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
