package domain

import "time"

// Room is a shared study room identified by a short join code.
type Room struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	GraphBuiltAt time.Time `json:"graph_built_at,omitempty"`
}

// Member is a student who joined a room.
type Member struct {
	ID       int64     `json:"id"`
	RoomCode string    `json:"room_code"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
	Active   bool      `json:"active"`
}

// Upload is a piece of study material contributed to a room.
type Upload struct {
	ID         int64     `json:"id"`
	RoomCode   string    `json:"room_code"`
	Username   string    `json:"username"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// RoomMessage is one entry in a room's shared chat.
type RoomMessage struct {
	ID        int64     `json:"id"`
	RoomCode  string    `json:"room_code"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent"`
	CreatedAt time.Time `json:"created_at"`
}
