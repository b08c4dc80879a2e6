package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"studymate/internal/domain"
	"studymate/internal/shared"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomCodeLength = 6

func newRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}

// CreateRoom creates a room with a fresh unique join code.
func (s *SQLiteStore) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for attempt := 0; attempt < 10; attempt++ {
		code := newRoomCode()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO rooms (code, name, created_at) VALUES (?, ?, ?)`,
			code, name, s.now().Unix())
		if err != nil {
			if shared.IsSQLiteUniqueError(err) {
				continue
			}
			return nil, fmt.Errorf("insert room: %w", err)
		}
		return s.getRoomLocked(ctx, code)
	}
	return nil, fmt.Errorf("could not allocate a unique room code")
}

// GetRoom returns a room by code, or nil when it does not exist.
func (s *SQLiteStore) GetRoom(ctx context.Context, code string) (*domain.Room, error) {
	return s.getRoomLocked(ctx, normalizeCode(code))
}

func (s *SQLiteStore) getRoomLocked(ctx context.Context, code string) (*domain.Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code, name, created_at, graph_built_at FROM rooms WHERE code = ?`, code)

	var room domain.Room
	var createdAt int64
	var graphBuiltAt sql.NullInt64
	err := row.Scan(&room.Code, &room.Name, &createdAt, &graphBuiltAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan room row: %w", err)
	}
	room.CreatedAt = time.Unix(createdAt, 0)
	if graphBuiltAt.Valid {
		room.GraphBuiltAt = time.Unix(graphBuiltAt.Int64, 0)
	}
	return &room, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// JoinRoom adds (or reactivates) a member.
func (s *SQLiteStore) JoinRoom(ctx context.Context, code, username string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (room_code, username, joined_at, is_active)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(room_code, username) DO UPDATE SET is_active = 1`,
		normalizeCode(code), username, s.now().Unix())
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	return nil
}

// Members lists the active members of a room in join order.
func (s *SQLiteStore) Members(ctx context.Context, code string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_code, username, joined_at, is_active
		FROM members WHERE room_code = ? AND is_active = 1
		ORDER BY joined_at ASC, id ASC`, normalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		var joinedAt int64
		var active int
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.Username, &joinedAt, &active); err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		m.JoinedAt = time.Unix(joinedAt, 0)
		m.Active = active == 1
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

// AddUpload stores contributed material and invalidates the room's cached
// graph, since the merged content it was built from changed.
func (s *SQLiteStore) AddUpload(ctx context.Context, code, username, filename, content string) (*domain.Upload, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	code = normalizeCode(code)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (room_code, username, filename, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?)`,
		code, username, filename, content, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("upload insert id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET graph_cache = NULL, graph_built_at = NULL WHERE code = ?`, code); err != nil {
		return nil, fmt.Errorf("invalidate room graph: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_code, username, filename, content, uploaded_at
		FROM uploads WHERE id = ?`, id)
	var u domain.Upload
	var uploadedAt int64
	if err := row.Scan(&u.ID, &u.RoomCode, &u.Username, &u.Filename, &u.Content, &uploadedAt); err != nil {
		return nil, fmt.Errorf("scan upload row: %w", err)
	}
	u.UploadedAt = time.Unix(uploadedAt, 0)
	return &u, nil
}

// Uploads lists a room's uploads in upload order.
func (s *SQLiteStore) Uploads(ctx context.Context, code string) ([]domain.Upload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_code, username, filename, content, uploaded_at
		FROM uploads WHERE room_code = ? ORDER BY uploaded_at ASC, id ASC`, normalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Upload
	for rows.Next() {
		var u domain.Upload
		var uploadedAt int64
		if err := rows.Scan(&u.ID, &u.RoomCode, &u.Username, &u.Filename, &u.Content, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		u.UploadedAt = time.Unix(uploadedAt, 0)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return out, nil
}

// MergedContent joins all uploads into one labelled text block.
func (s *SQLiteStore) MergedContent(ctx context.Context, code string) (string, error) {
	uploads, err := s.Uploads(ctx, code)
	if err != nil {
		return "", err
	}
	if len(uploads) == 0 {
		return "", nil
	}
	sections := make([]string, 0, len(uploads))
	for _, u := range uploads {
		sections = append(sections, fmt.Sprintf("=== %s (by %s) ===\n%s", u.Filename, u.Username, u.Content))
	}
	return strings.Join(sections, "\n\n"), nil
}

// SaveRoomGraph caches a built knowledge graph for the room.
func (s *SQLiteStore) SaveRoomGraph(ctx context.Context, code string, graph *domain.Graph) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	payload, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("marshal room graph: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE rooms SET graph_cache = ?, graph_built_at = ? WHERE code = ?`,
		string(payload), s.now().Unix(), normalizeCode(code))
	if err != nil {
		return fmt.Errorf("save room graph: %w", err)
	}
	return nil
}

// RoomGraph returns the cached graph, or nil when absent or unreadable.
func (s *SQLiteStore) RoomGraph(ctx context.Context, code string) (*domain.Graph, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT graph_cache FROM rooms WHERE code = ?`, normalizeCode(code))

	var cache sql.NullString
	err := row.Scan(&cache)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan room graph: %w", err)
	}
	if !cache.Valid || cache.String == "" {
		return nil, nil
	}

	var graph domain.Graph
	if err := json.Unmarshal([]byte(cache.String), &graph); err != nil {
		// A corrupt cache entry is treated as a miss, not an error.
		return nil, nil
	}
	return &graph, nil
}

// InvalidateRoomGraph clears the cached graph.
func (s *SQLiteStore) InvalidateRoomGraph(ctx context.Context, code string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET graph_cache = NULL, graph_built_at = NULL WHERE code = ?`, normalizeCode(code))
	if err != nil {
		return fmt.Errorf("invalidate room graph: %w", err)
	}
	return nil
}

// AddRoomMessage appends a message to the room chat.
func (s *SQLiteStore) AddRoomMessage(ctx context.Context, code, username string, role domain.Role, content, agent string) (*domain.RoomMessage, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if agent == "" {
		agent = "general"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO room_messages (room_code, username, role, content, agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		normalizeCode(code), username, string(role), content, agent, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("insert room message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("room message insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_code, username, role, content, agent, created_at
		FROM room_messages WHERE id = ?`, id)
	return scanRoomMessage(row)
}

func scanRoomMessage(row rowScanner) (*domain.RoomMessage, error) {
	var m domain.RoomMessage
	var role string
	var createdAt int64
	if err := row.Scan(&m.ID, &m.RoomCode, &m.Username, &role, &m.Content, &m.Agent, &createdAt); err != nil {
		return nil, fmt.Errorf("scan room message row: %w", err)
	}
	m.Role = domain.Role(role)
	m.CreatedAt = time.Unix(createdAt, 0)
	return &m, nil
}

// RoomMessages returns the most recent messages in chronological order.
func (s *SQLiteStore) RoomMessages(ctx context.Context, code string, limit int) ([]domain.RoomMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_code, username, role, content, agent, created_at
		FROM room_messages WHERE room_code = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, normalizeCode(code), limit)
	if err != nil {
		return nil, fmt.Errorf("query room messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var newestFirst []domain.RoomMessage
	for rows.Next() {
		m, err := scanRoomMessage(rows)
		if err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room messages: %w", err)
	}

	// Reverse into chronological order.
	out := make([]domain.RoomMessage, len(newestFirst))
	for i, m := range newestFirst {
		out[len(newestFirst)-1-i] = m
	}
	return out, nil
}
