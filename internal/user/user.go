package user

import (
	"time"

	"github.com/google/uuid"
)

// User is one registered participant, keyed internally by UUID and externally
// by their Telegram id.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TgID      int64     `json:"tg_id" db:"tg_id"`
	Name      string    `json:"name" db:"name"`
	PhotoURL  *string   `json:"photo_url" db:"photo_url"`
	Timezone  string    `json:"timezone" db:"timezone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the user payload the client renders on the profile screen.
type Profile struct {
	User         User     `json:"user"`
	Achievements []string `json:"achievements"`
}
